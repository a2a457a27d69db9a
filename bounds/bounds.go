package bounds

import (
	"errors"
	"math"

	"github.com/sartorproj/goobr/trace"
)

// ErrEmpty is returned when a series holds no finite value.
var ErrEmpty = errors.New("series has no values")

// Range is a closed [Min, Max] interval of one coordinate.
type Range struct {
	Min float64
	Max float64
}

// Of returns the range of the non-NaN values of series.
func Of(series []float64) (Range, error) {
	r := Range{Min: math.Inf(1), Max: math.Inf(-1)}
	found := false
	for _, v := range series {
		if math.IsNaN(v) {
			continue
		}
		found = true
		if v < r.Min {
			r.Min = v
		}
		if v > r.Max {
			r.Max = v
		}
	}
	if !found {
		return Range{}, ErrEmpty
	}
	return r, nil
}

// Update returns current widened to include candidate. It never narrows.
func Update(current, candidate Range) Range {
	return current.Union(candidate)
}

// Union returns the smallest range covering both r and o.
func (r Range) Union(o Range) Range {
	return Range{
		Min: math.Min(r.Min, o.Min),
		Max: math.Max(r.Max, o.Max),
	}
}

// Contains reports whether o lies within r, bounds included.
func (r Range) Contains(o Range) bool {
	return o.Min >= r.Min && o.Max <= r.Max
}

// Span returns Max - Min.
func (r Range) Span() float64 {
	return r.Max - r.Min
}

// Tracker accumulates the X and Y bounds of the curves added to an overlay.
// The zero Tracker holds no bounds; the first added curve defines them.
type Tracker struct {
	X     Range
	Y     Range
	Count int
}

// Add returns a tracker widened by the curve (x, y).
func (t Tracker) Add(x, y []float64) (Tracker, error) {
	xr, err := Of(x)
	if err != nil {
		return t, err
	}
	yr, err := Of(y)
	if err != nil {
		return t, err
	}

	if t.Count == 0 {
		return Tracker{X: xr, Y: yr, Count: 1}, nil
	}
	return Tracker{
		X:     Update(t.X, xr),
		Y:     Update(t.Y, yr),
		Count: t.Count + 1,
	}, nil
}

// AddTable returns a tracker widened by the present (x, y) pairs of the
// given table columns.
func (t Tracker) AddTable(table *trace.Table, xCol, yCol int) (Tracker, error) {
	x, y, err := table.Pairs(xCol, yCol)
	if err != nil {
		return t, err
	}
	return t.Add(x, y)
}
