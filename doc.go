// Package goobr ingests OBR (optical backscatter reflectometer) trace exports
// and extracts measurements from them.
//
// An OBR export is a tab-separated text file with an 11 or 13 line metadata
// header followed by a column header row and numeric rows, typically fiber
// length against spectral shift. goobr loads such files into tables with
// explicit missing cells, groups the files of one measurement by prefix and
// suffix, interpolates and averages traces, and tracks axis bounds across
// overlaid curves.
//
// # Quick Start
//
// Load the Upper and Lower traces of one strain level and measure them:
//
//	ds := dataset.Assemble("data/smf/strain/loop1", "10me", []string{"Upper", "Lower"})
//	shift, err := measure.SinglePointFor(ds, "Lower", 2.30)
//	mean, err := measure.IntervalMeanFor(ds, "Lower", 2.22, 2.35)
//
// Sweep every level of a directory tree into a characterization table:
//
//	result, err := characterize.NewRunner().Run(plan)
//	fit, err := result.Fit(0)
//
// # Packages
//
//   - trace: Header sniffing and trace file loading
//   - dataset: Grouping the files of one measurement prefix
//   - discovery: Subdirectory and measurement prefix discovery
//   - measure: Interpolated single points and interval means
//   - bounds: Axis bounds across overlaid curves
//   - characterize: Level sweeps, sensitivity fits and export
//
// The obrtrace command in cmd/obrtrace exposes these from the shell.
package goobr
