// Package measure extracts scalar measurements from trace tables.
//
// # Single-Point Measurement
//
// Interpolate a table linearly at a fiber position:
//
//	shift, err := measure.SinglePointFor(ds, "Lower", 2.30)
//	if errors.Is(err, measure.ErrOutOfDomain) {
//	    // 2.30 m is not covered by the scan
//	}
//
// # Interval Mean
//
// Average a table between the rows nearest to two positions, the upper one
// excluded:
//
//	mean, err := measure.IntervalMeanFor(ds, "Lower", 2.22, 2.35)
//	if errors.Is(err, measure.ErrEmptyInterval) {
//	    // both bounds resolved to the same row, mean is NaN
//	}
//
// SinglePoint and IntervalMean address tables by position among the loaded
// tables of a dataset; failed loads shift later tables down. The *For
// variants address tables by suffix and report a failed suffix with
// dataset.ErrMissingDimension.
//
// # Column Selection
//
// The table functions take the columns to read. Files that store several
// curves side by side select them with PairColumns:
//
//	mean, err := measure.Mean(table, measure.PairColumns(2), 2.35, 2.45)
//
// Rows where the selected x or y cell is missing are ignored.
package measure
