// Package measure extracts scalar measurements from trace tables.
package measure

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/sartorproj/goobr/bounds"
	"github.com/sartorproj/goobr/dataset"
	"github.com/sartorproj/goobr/trace"
)

var (
	// ErrOutOfDomain is returned when interpolating outside the x range.
	ErrOutOfDomain = errors.New("coordinate outside table range")

	// ErrEmptyInterval is returned when an interval resolves to no rows.
	ErrEmptyInterval = errors.New("interval contains no rows")

	// ErrInsufficientData is returned when a table has too few usable rows.
	ErrInsufficientData = errors.New("not enough data points")
)

// Columns selects the x and y columns of a table.
type Columns struct {
	X int
	Y int
}

// DefaultColumns selects the first two columns.
var DefaultColumns = Columns{X: 0, Y: 1}

// PairColumns selects the n-th (x, y) column pair of a table that stores
// several curves side by side.
func PairColumns(n int) Columns {
	return Columns{X: 2 * n, Y: 2*n + 1}
}

// Domain returns the x range covered by the usable rows of table.
func Domain(table *trace.Table, cols Columns) (bounds.Range, error) {
	x, _, err := table.Pairs(cols.X, cols.Y)
	if err != nil {
		return bounds.Range{}, err
	}
	r, err := bounds.Of(x)
	if err != nil {
		return bounds.Range{}, ErrInsufficientData
	}
	return r, nil
}

// Interpolate evaluates the piecewise-linear interpolant of the selected
// columns at x. Rows with a missing x or y are ignored. x outside the
// covered range fails with ErrOutOfDomain; no extrapolation is done.
func Interpolate(table *trace.Table, cols Columns, x float64) (float64, error) {
	xs, ys, err := table.Pairs(cols.X, cols.Y)
	if err != nil {
		return math.NaN(), err
	}
	if len(xs) < 2 {
		return math.NaN(), fmt.Errorf("%w: %d rows", ErrInsufficientData, len(xs))
	}
	if !sort.Float64sAreSorted(xs) {
		xs, ys = sortPairs(xs, ys)
	}

	lo, hi := xs[0], xs[len(xs)-1]
	if math.IsNaN(x) || x < lo || x > hi {
		return math.NaN(), fmt.Errorf("%w: %g not in [%g, %g]", ErrOutOfDomain, x, lo, hi)
	}

	i := sort.SearchFloat64s(xs, x)
	if xs[i] == x {
		return ys[i], nil
	}
	x0, x1 := xs[i-1], xs[i]
	y0, y1 := ys[i-1], ys[i]
	return y0 + (x-x0)*(y1-y0)/(x1-x0), nil
}

// Mean returns the mean of the selected y column between the rows nearest
// to xMin and xMax, the latter excluded. Ties resolve to the first row.
// An interval that resolves to no rows returns NaN and ErrEmptyInterval.
func Mean(table *trace.Table, cols Columns, xMin, xMax float64) (float64, error) {
	xs, ys, err := table.Pairs(cols.X, cols.Y)
	if err != nil {
		return math.NaN(), err
	}
	if len(xs) == 0 {
		return math.NaN(), fmt.Errorf("%w: no rows", ErrInsufficientData)
	}

	idxMin := nearest(xs, xMin)
	idxMax := nearest(xs, xMax)
	if idxMax <= idxMin {
		return math.NaN(), fmt.Errorf("%w: rows [%d, %d)", ErrEmptyInterval, idxMin, idxMax)
	}

	sum := 0.0
	for _, v := range ys[idxMin:idxMax] {
		sum += v
	}
	return sum / float64(idxMax-idxMin), nil
}

// SinglePoint interpolates the dim-th loaded table of ds at x.
func SinglePoint(ds *dataset.Dataset, dim int, x float64) (float64, error) {
	table, err := ds.At(dim)
	if err != nil {
		return math.NaN(), err
	}
	return Interpolate(table, DefaultColumns, x)
}

// SinglePointFor interpolates the table loaded for suffix at x.
func SinglePointFor(ds *dataset.Dataset, suffix string, x float64) (float64, error) {
	table, err := ds.Lookup(suffix)
	if err != nil {
		return math.NaN(), err
	}
	return Interpolate(table, DefaultColumns, x)
}

// IntervalMean averages the dim-th loaded table of ds over [xMin, xMax).
func IntervalMean(ds *dataset.Dataset, dim int, xMin, xMax float64) (float64, error) {
	table, err := ds.At(dim)
	if err != nil {
		return math.NaN(), err
	}
	return Mean(table, DefaultColumns, xMin, xMax)
}

// IntervalMeanFor averages the table loaded for suffix over [xMin, xMax).
func IntervalMeanFor(ds *dataset.Dataset, suffix string, xMin, xMax float64) (float64, error) {
	table, err := ds.Lookup(suffix)
	if err != nil {
		return math.NaN(), err
	}
	return Mean(table, DefaultColumns, xMin, xMax)
}

// nearest returns the index of the value closest to v, first one on ties.
func nearest(xs []float64, v float64) int {
	best := 0
	bestDist := math.Abs(xs[0] - v)
	for i := 1; i < len(xs); i++ {
		if d := math.Abs(xs[i] - v); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func sortPairs(xs, ys []float64) ([]float64, []float64) {
	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return xs[idx[a]] < xs[idx[b]] })

	sx := make([]float64, len(xs))
	sy := make([]float64, len(ys))
	for i, j := range idx {
		sx[i] = xs[j]
		sy[i] = ys[j]
	}
	return sx, sy
}
