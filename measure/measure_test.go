package measure

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/goobr/bounds"
	"github.com/sartorproj/goobr/dataset"
	"github.com/sartorproj/goobr/internal/tracetest"
	"github.com/sartorproj/goobr/trace"
)

func cells(values ...float64) []trace.Cell {
	out := make([]trace.Cell, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = trace.Missing()
			continue
		}
		out[i] = trace.Number(v)
	}
	return out
}

func table(columns ...[]float64) *trace.Table {
	t := &trace.Table{}
	for i, c := range columns {
		t.Columns = append(t.Columns, trace.Column{Name: string(rune('a' + i)), Cells: cells(c...)})
	}
	return t
}

func TestInterpolate(t *testing.T) {
	tbl := table(
		[]float64{1, 2, 3, 4},
		[]float64{10, 20, 40, 80},
	)

	tests := []struct {
		name     string
		x        float64
		expected float64
	}{
		{"left bound", 1, 10},
		{"right bound", 4, 80},
		{"on sample", 3, 40},
		{"between", 2.5, 30},
		{"between upper", 3.25, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Interpolate(tbl, DefaultColumns, tt.x)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-12)
		})
	}
}

func TestInterpolateOutOfDomain(t *testing.T) {
	tbl := table([]float64{1, 2, 3}, []float64{1, 2, 3})

	for _, x := range []float64{0.999, 3.001, math.NaN(), math.Inf(1)} {
		got, err := Interpolate(tbl, DefaultColumns, x)
		assert.ErrorIs(t, err, ErrOutOfDomain, "x=%v", x)
		assert.True(t, math.IsNaN(got))
	}
}

func TestInterpolateSkipsMissingAndUnsorted(t *testing.T) {
	tbl := table(
		[]float64{3, 1, math.NaN(), 2},
		[]float64{30, 10, 99, math.NaN()},
	)

	got, err := Interpolate(tbl, DefaultColumns, 2)
	require.NoError(t, err)
	assert.InDelta(t, 20, got, 1e-12)

	// The table keeps its row order.
	assert.Equal(t, 3.0, tbl.Columns[0].Cells[0].Value)
}

func TestInterpolateInsufficientData(t *testing.T) {
	tbl := table([]float64{1, math.NaN()}, []float64{1, 2})

	_, err := Interpolate(tbl, DefaultColumns, 1)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = Interpolate(tbl, Columns{X: 0, Y: 4}, 1)
	assert.ErrorIs(t, err, trace.ErrNoColumn)
}

func TestMean(t *testing.T) {
	tbl := table(
		[]float64{2.20, 2.21, 2.22, 2.23, 2.24, 2.25},
		[]float64{1, 2, 3, 4, 5, 6},
	)

	tests := []struct {
		name     string
		xMin     float64
		xMax     float64
		expected float64
	}{
		{"exact bounds", 2.21, 2.24, 3},       // rows 1..3
		{"nearest bounds", 2.2149, 2.2351, 3}, // 2.21 and 2.24 nearest
		{"whole table", 2.0, 3.0, 3},          // rows 0..4, last row excluded
		{"single row", 2.22, 2.23, 3},         // row 2 only
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Mean(tbl, DefaultColumns, tt.xMin, tt.xMax)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-12)
		})
	}
}

func TestMeanEmptyInterval(t *testing.T) {
	tbl := table([]float64{1, 2, 3}, []float64{1, 2, 3})

	// Both bounds resolve to row 1.
	got, err := Mean(tbl, DefaultColumns, 2, 2.1)
	assert.ErrorIs(t, err, ErrEmptyInterval)
	assert.True(t, math.IsNaN(got))

	// Reversed bounds.
	got, err = Mean(tbl, DefaultColumns, 3, 1)
	assert.ErrorIs(t, err, ErrEmptyInterval)
	assert.True(t, math.IsNaN(got))
}

func TestMeanTiesResolveToFirst(t *testing.T) {
	tbl := table([]float64{1, 2, 3, 4}, []float64{10, 20, 30, 40})

	// 1.5 is equidistant from rows 0 and 1; 3.5 from rows 2 and 3.
	got, err := Mean(tbl, DefaultColumns, 1.5, 3.5)
	require.NoError(t, err)
	assert.InDelta(t, 15, got, 1e-12)
}

func TestPairColumns(t *testing.T) {
	assert.Equal(t, Columns{X: 0, Y: 1}, PairColumns(0))
	assert.Equal(t, Columns{X: 4, Y: 5}, PairColumns(2))

	tbl := table(
		[]float64{1, 2, 3}, []float64{0, 0, 0},
		[]float64{1, 2, 3}, []float64{5, 7, 9},
	)
	got, err := Mean(tbl, PairColumns(1), 1, 3)
	require.NoError(t, err)
	assert.InDelta(t, 6, got, 1e-12)
}

func TestDomain(t *testing.T) {
	tbl := table([]float64{2.5, math.NaN(), 2.1, 2.3}, []float64{1, 2, 3, math.NaN()})

	r, err := Domain(tbl, DefaultColumns)
	require.NoError(t, err)
	assert.Equal(t, bounds.Range{Min: 2.1, Max: 2.5}, r)

	_, err = Domain(table([]float64{math.NaN()}, []float64{1}), DefaultColumns)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestDatasetExtraction(t *testing.T) {
	dir := t.TempDir()
	shift := func(x float64) float64 { return 10 * x }
	tracetest.Write(t, dir, "A_Upper.txt", tracetest.Ramp(2.0, 0.125, 9, shift))

	ds := dataset.Assemble(dir, "A", []string{"Upper", "Lower"})
	require.Equal(t, 1, ds.Len())

	first, err := SinglePoint(ds, 0, 2.3)
	require.NoError(t, err)
	assert.InDelta(t, 23, first, 1e-9)

	second, err := SinglePoint(ds, 0, 2.3)
	require.NoError(t, err)
	assert.Equal(t, first, second, "SinglePoint must be idempotent")

	byName, err := SinglePointFor(ds, "Upper", 2.3)
	require.NoError(t, err)
	assert.Equal(t, first, byName)

	// Lower failed, so index 1 does not exist.
	_, err = SinglePoint(ds, 1, 2.3)
	assert.ErrorIs(t, err, dataset.ErrMissingDimension)
	_, err = SinglePointFor(ds, "Lower", 2.3)
	assert.ErrorIs(t, err, dataset.ErrMissingDimension)

	_, err = SinglePoint(ds, 0, 5)
	assert.ErrorIs(t, err, ErrOutOfDomain)

	mean, err := IntervalMean(ds, 0, 2.0, 2.5)
	require.NoError(t, err)
	assert.InDelta(t, 21.875, mean, 1e-9) // rows 2.0 .. 2.375

	meanByName, err := IntervalMeanFor(ds, "Upper", 2.0, 2.5)
	require.NoError(t, err)
	assert.Equal(t, mean, meanByName)

	_, err = IntervalMean(ds, 3, 2.0, 2.5)
	assert.ErrorIs(t, err, dataset.ErrMissingDimension)
	_, err = IntervalMeanFor(ds, "Lower", 2.0, 2.5)
	assert.ErrorIs(t, err, dataset.ErrMissingDimension)
}

func TestEmptyDatasetExtraction(t *testing.T) {
	ds := dataset.Assemble(t.TempDir(), "missing", []string{"Upper"})
	require.True(t, ds.Empty())

	_, err := SinglePoint(ds, 0, 1)
	assert.ErrorIs(t, err, dataset.ErrEmptyDataset)

	_, err = IntervalMeanFor(ds, "Upper", 1, 2)
	assert.ErrorIs(t, err, dataset.ErrEmptyDataset)
}
