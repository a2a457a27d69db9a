// Package trace provides the table model and loader for OBR trace files.
package trace

import (
	"errors"
	"math"
	"sort"
)

// Cell is one table value. Valid is false for cells that were empty or could
// not be parsed as a number.
type Cell struct {
	Value float64
	Valid bool
}

// Number returns a present cell holding v.
func Number(v float64) Cell {
	return Cell{Value: v, Valid: true}
}

// Missing returns a missing cell.
func Missing() Cell {
	return Cell{Value: math.NaN()}
}

// Column is a named column of cells.
type Column struct {
	Name  string
	Cells []Cell
}

// Len returns the number of cells, missing ones included.
func (c *Column) Len() int {
	return len(c.Cells)
}

// Present returns the number of cells holding a value.
func (c *Column) Present() int {
	n := 0
	for _, cell := range c.Cells {
		if cell.Valid {
			n++
		}
	}
	return n
}

// Values returns the present values in row order.
func (c *Column) Values() []float64 {
	values := make([]float64, 0, len(c.Cells))
	for _, cell := range c.Cells {
		if cell.Valid {
			values = append(values, cell.Value)
		}
	}
	return values
}

// Mean calculates the arithmetic mean of the present values.
// Returns NaN if the column holds no values.
func (c *Column) Mean() float64 {
	values := c.Values()
	if len(values) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Min returns the minimum present value, or NaN if there is none.
func (c *Column) Min() float64 {
	values := c.Values()
	if len(values) == 0 {
		return math.NaN()
	}
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the maximum present value, or NaN if there is none.
func (c *Column) Max() float64 {
	values := c.Values()
	if len(values) == 0 {
		return math.NaN()
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Median returns the median of the present values.
func (c *Column) Median() float64 {
	sorted := c.Values()
	if len(sorted) == 0 {
		return math.NaN()
	}
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Table is one trace scan: the first column is the independent variable
// (fiber length), the remaining columns are measurements.
type Table struct {
	Source  string
	Columns []Column
}

// ErrNoColumn is returned when a column index is out of range.
var ErrNoColumn = errors.New("column index out of range")

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	return len(t.Columns)
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the i-th column.
func (t *Table) Column(i int) (*Column, error) {
	if i < 0 || i >= len(t.Columns) {
		return nil, ErrNoColumn
	}
	return &t.Columns[i], nil
}

// Pairs returns the (x, y) values of the rows where both columns hold a
// value, in row order.
func (t *Table) Pairs(xCol, yCol int) (x, y []float64, err error) {
	xc, err := t.Column(xCol)
	if err != nil {
		return nil, nil, err
	}
	yc, err := t.Column(yCol)
	if err != nil {
		return nil, nil, err
	}

	n := xc.Len()
	if yc.Len() < n {
		n = yc.Len()
	}
	x = make([]float64, 0, n)
	y = make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if xc.Cells[i].Valid && yc.Cells[i].Valid {
			x = append(x, xc.Cells[i].Value)
			y = append(y, yc.Cells[i].Value)
		}
	}
	return x, y, nil
}

// DropColumns returns a copy of the table without the columns whose name
// matches drop.
func (t *Table) DropColumns(drop func(name string) bool) *Table {
	out := &Table{Source: t.Source}
	for _, c := range t.Columns {
		if drop(c.Name) {
			continue
		}
		cells := make([]Cell, len(c.Cells))
		copy(cells, c.Cells)
		out.Columns = append(out.Columns, Column{Name: c.Name, Cells: cells})
	}
	return out
}

// Copy creates a deep copy of the table.
func (t *Table) Copy() *Table {
	return t.DropColumns(func(string) bool { return false })
}
