// Package main demonstrates trace loading, measurement and a strain
// characterization sweep on synthetic OBR traces.
package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sartorproj/goobr/bounds"
	"github.com/sartorproj/goobr/characterize"
	"github.com/sartorproj/goobr/dataset"
	"github.com/sartorproj/goobr/discovery"
	"github.com/sartorproj/goobr/internal/config"
	"github.com/sartorproj/goobr/internal/logging"
	"github.com/sartorproj/goobr/measure"
)

// Sensor describes one synthetic fiber section.
type Sensor struct {
	Suffix      string  // File suffix
	Start, Stop float64 // Scanned length (m)
	Center      float64 // Center of the strained section (m)
	Width       float64 // Width of the strained section (m)
	Gain        float64 // Spectral shift per level (GHz/µε)
}

// CurveResult holds one trace for JSON export.
type CurveResult struct {
	Prefix string    `json:"prefix"`
	Suffix string    `json:"suffix"`
	Length []float64 `json:"length"`
	Shift  []float64 `json:"shift"`
}

// OutputData holds all results for visualization.
type OutputData struct {
	RunID   string                  `json:"run_id"`
	Curves  []CurveResult           `json:"curves"`
	Bounds  map[string]bounds.Range `json:"bounds"`
	Levels  []float64               `json:"levels"`
	Probes  map[string][]*float64   `json:"probes"` // null where a probe failed
	Slopes  map[string]float64      `json:"slopes"`
	Skipped []string                `json:"skipped"`
}

var (
	levels  = []float64{0, 500, 1000, 1500, 2000}
	sensors = []Sensor{
		{Suffix: "Upper", Start: 2.0, Stop: 2.6, Center: 2.28, Width: 0.05, Gain: -0.15e-3 * 0.8},
		{Suffix: "Lower", Start: 2.0, Stop: 2.6, Center: 2.28, Width: 0.05, Gain: -0.15e-3},
	}
)

func main() {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("goobr Demonstration - OBR trace ingestion and strain characterization")
	fmt.Println(strings.Repeat("=", 80))

	cfg := config.Default().Logging
	cfg.Format = "console"
	cfg.Level = "warn"
	logger, err := logging.New(cfg)
	if err != nil {
		fmt.Printf("Logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	root, err := os.MkdirTemp("", "goobr-demo-")
	if err != nil {
		fmt.Printf("Temp dir: %v\n", err)
		os.Exit(1)
	}
	defer os.RemoveAll(root)

	dir := filepath.Join(root, "loop1")
	if err := writeSweep(dir); err != nil {
		fmt.Printf("Writing traces: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nSynthetic sweep: %s\n", dir)

	// Discovery
	fmt.Printf("\n%s\nDISCOVERY\n%s\n", strings.Repeat("=", 80), strings.Repeat("=", 80))
	order := make([]string, len(levels))
	for i, l := range levels {
		order[i] = prefixFor(l)
	}
	opts := discovery.DefaultPrefixOptions()
	opts.NumericOnly = true
	opts.Order = order
	prefixes, err := discovery.FilePrefixes(dir, opts)
	if err != nil {
		fmt.Printf("   Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("   Prefixes: %s\n", strings.Join(prefixes, ", "))

	// Single dataset
	fmt.Printf("\n%s\nSINGLE DATASET (%s)\n%s\n", strings.Repeat("=", 80), prefixes[2], strings.Repeat("=", 80))
	asm := dataset.NewAssembler(dataset.WithLogger(logger))
	ds := asm.Assemble(dataset.Group{Dir: dir, Prefix: prefixes[2], Suffixes: []string{"Upper", "Lower"}})
	for _, suffix := range ds.Suffixes() {
		t, _ := ds.Table(suffix)
		fmt.Printf("   %-6s %d rows, columns %v\n", suffix, t.NumRows(), t.Names())
	}
	if v, err := measure.SinglePointFor(ds, "Lower", 2.30); err == nil {
		fmt.Printf("   Lower point @ 2.30 m:       %8.4f GHz\n", v)
	}
	if v, err := measure.IntervalMeanFor(ds, "Lower", 2.22, 2.35); err == nil {
		fmt.Printf("   Lower mean [2.22, 2.35) m:  %8.4f GHz\n", v)
	}
	if _, err := measure.SinglePoint(ds, 0, 3.0); err != nil {
		fmt.Printf("   Upper point @ 3.00 m:       %v\n", err)
	}

	// Sweep
	fmt.Printf("\n%s\nCHARACTERIZATION\n%s\n", strings.Repeat("=", 80), strings.Repeat("=", 80))
	plan := characterize.Plan{
		Root:        root,
		Suffixes:    []string{"Upper", "Lower"},
		NumericOnly: true,
		Order:       order,
		LevelUnit:   "me",
		Probes: []characterize.Probe{
			{Name: "Upper Point", Suffix: "Upper", Kind: characterize.KindPoint, X: 2.28},
			{Name: "Lower Point", Suffix: "Lower", Kind: characterize.KindPoint, X: 2.30},
			{Name: "Lower Mean", Suffix: "Lower", Kind: characterize.KindMean, X: 2.22, XMax: 2.35},
		},
	}
	result, err := characterize.NewRunner(characterize.WithLogger(logger)).Run(plan)
	if err != nil {
		fmt.Printf("   Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("   %-8s", "Level")
	for _, p := range plan.Probes {
		fmt.Printf("%14s", p.Label())
	}
	fmt.Println()
	for _, row := range result.Rows {
		fmt.Printf("   %-8g", row.Level)
		for _, v := range row.Values {
			fmt.Printf("%14.4f", v)
		}
		fmt.Println()
	}
	fmt.Println()

	output := OutputData{
		RunID:   result.ID,
		Bounds:  make(map[string]bounds.Range),
		Levels:  result.Levels(),
		Probes:  make(map[string][]*float64),
		Slopes:  make(map[string]float64),
		Skipped: result.Skipped,
	}
	for i, p := range plan.Probes {
		output.Probes[p.Label()] = nullable(result.Column(i))
		fit, err := result.Fit(i)
		if err != nil {
			fmt.Printf("   %-12s %v\n", p.Label(), err)
			continue
		}
		output.Slopes[p.Label()] = fit.Slope
		fmt.Printf("   %-12s sensitivity %.4e GHz/µε  R²=%.4f\n", p.Label(), fit.Slope, fit.R2)
	}
	for suffix, tracker := range result.Bounds {
		output.Bounds[suffix+" x"] = tracker.X
		output.Bounds[suffix+" y"] = tracker.Y
		fmt.Printf("   %-6s overlay x [%.3f, %.3f] y [%.4f, %.4f] over %d curves\n",
			suffix, tracker.X.Min, tracker.X.Max, tracker.Y.Min, tracker.Y.Max, tracker.Count)
	}

	for _, prefix := range prefixes {
		d := asm.Assemble(dataset.Group{Dir: dir, Prefix: prefix, Suffixes: []string{"Lower"}})
		t, ok := d.Table("Lower")
		if !ok {
			continue
		}
		x, y, err := t.Pairs(0, 1)
		if err != nil {
			continue
		}
		output.Curves = append(output.Curves, CurveResult{Prefix: prefix, Suffix: "Lower", Length: x, Shift: y})
	}

	// Export results
	fmt.Printf("\n%s\nEXPORTING RESULTS\n%s\n", strings.Repeat("=", 80), strings.Repeat("=", 80))

	if err := characterize.SaveTSV("characterization.txt", result); err == nil {
		fmt.Printf("Exported %d rows to characterization.txt\n", len(result.Rows))
	}
	if err := characterize.SaveXLSX("characterization.xlsx", result); err == nil {
		fmt.Printf("Exported %d rows to characterization.xlsx\n", len(result.Rows))
	}
	if data, err := json.MarshalIndent(output, "", "  "); err == nil {
		os.WriteFile("characterization.json", data, 0644)
		fmt.Printf("Exported %d curves to characterization.json\n", len(output.Curves))
	}
	fmt.Println(strings.Repeat("=", 80))
}

// nullable maps NaN to nil, which encoding/json cannot represent.
func nullable(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i := range values {
		if !math.IsNaN(values[i]) {
			out[i] = &values[i]
		}
	}
	return out
}

func prefixFor(level float64) string {
	return strconv.FormatFloat(level, 'f', -1, 64) + "me"
}

// writeSweep writes one Upper/Lower trace pair per level into dir. The
// highest level has no Lower trace.
func writeSweep(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for i, level := range levels {
		for _, s := range sensors {
			if i == len(levels)-1 && s.Suffix == "Lower" {
				continue
			}
			path := filepath.Join(dir, prefixFor(level)+"_"+s.Suffix+".txt")
			if err := os.WriteFile(path, []byte(traceContent(s, level, i%2 == 0)), 0o644); err != nil {
				return err
			}
		}
	}
	return nil
}

// traceContent renders an OBR export of a Gaussian strain profile with a
// small deterministic ripple.
func traceContent(s Sensor, level float64, gage bool) string {
	var b strings.Builder
	b.WriteString("OBR 4600 Scan\nDate: 2021-03-04\nTime: 10:21:44\nDevice Under Test: smf\n")
	b.WriteString("Center Wavelength (nm): 1310.00\nScan Range (nm): 21.30\nGain (dB): 0\n")
	b.WriteString("Sensing Range (m): 2.0-2.6\nResolution (mm): 10.0\nSensor Spacing (cm): 1.0\n")
	if gage {
		b.WriteString("Gage length: 1.00 cm\nSensor Spacing: 0.50 cm\n\n")
	} else {
		b.WriteString("Measurement Type: Spectral Shift\n")
	}
	b.WriteString("Length (m)\tSpectral Shift (GHz)\t\n")

	for k := 0; ; k++ {
		x := s.Start + float64(k)*0.005
		if x > s.Stop+1e-9 {
			break
		}
		d := (x - s.Center) / s.Width
		y := s.Gain*level*math.Exp(-d*d/2) + 0.02*math.Sin(40*x)
		fmt.Fprintf(&b, "%.3f\t%.6f\t\n", x, y)
	}
	return b.String()
}
