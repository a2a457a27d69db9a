// Package characterize sweeps measurement directories and tabulates sensor
// response against strain or temperature level.
//
// A sweep walks every subdirectory of a root, assembles each measurement
// prefix, takes the configured probes from it and records one row per
// prefix:
//
//	plan := characterize.Plan{
//	    Root:      "data/smf/strain",
//	    Suffixes:  []string{"Upper", "Lower"},
//	    Order:     []string{"00me", "05me", "10me", "15me"},
//	    LevelUnit: "me",
//	    Probes: []characterize.Probe{
//	        {Name: "Single Point", Suffix: "Lower", Kind: characterize.KindPoint, X: 2.30},
//	        {Name: "Mean", Suffix: "Lower", Kind: characterize.KindMean, X: 2.22, XMax: 2.35},
//	    },
//	}
//	result, err := characterize.NewRunner(characterize.WithLogger(logger)).Run(plan)
//
// Failed probes are NaN. The slope of a probe against level is the sensor
// sensitivity:
//
//	fit, err := result.Fit(0)
//	fmt.Printf("%.4f GHz/µε (R²=%.3f)\n", fit.Slope, fit.R2)
//
// Overlay axis bounds of every loaded table are kept per suffix in
// result.Bounds.
//
// # Export
//
//	characterize.SaveTSV("characterization.txt", result)
//	characterize.SaveXLSX("characterization.xlsx", result)
package characterize
