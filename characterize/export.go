package characterize

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	// LevelHeader is the header of the level column.
	LevelHeader = "Level"

	// TableSheet and RunSheet are the XLSX sheet names.
	TableSheet = "characterization"
	RunSheet   = "run"
)

// Header returns the export header: the level column then one per probe.
func (r *Result) Header() []string {
	header := []string{LevelHeader}
	for _, p := range r.Plan.Probes {
		header = append(header, p.Label())
	}
	return header
}

// WriteTSV writes the result table as tab-separated text. NaN values are
// written as empty cells.
func WriteTSV(w io.Writer, r *Result) error {
	writer := csv.NewWriter(w)
	writer.Comma = '\t'

	if err := writer.Write(r.Header()); err != nil {
		return err
	}
	for _, row := range r.Rows {
		record := []string{formatValue(row.Level)}
		for _, v := range row.Values {
			record = append(record, formatValue(v))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// SaveTSV saves the result table to a tab-separated file.
func SaveTSV(path string, r *Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	buf := bufio.NewWriter(file)
	if err := WriteTSV(buf, r); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	return file.Close()
}

// SaveXLSX saves the result as a workbook with the result table and a run
// summary sheet.
func SaveXLSX(path string, r *Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), TableSheet); err != nil {
		return err
	}
	if err := writeTableSheet(f, r); err != nil {
		return err
	}
	if _, err := f.NewSheet(RunSheet); err != nil {
		return err
	}
	if err := writeRunSheet(f, r); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func writeTableSheet(f *excelize.File, r *Result) error {
	for col, h := range r.Header() {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(TableSheet, cell, h); err != nil {
			return err
		}
	}

	for i, row := range r.Rows {
		values := append([]float64{row.Level}, row.Values...)
		for col, v := range values {
			if math.IsNaN(v) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellFloat(TableSheet, cell, v, -1, 64); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeRunSheet(f *excelize.File, r *Result) error {
	summary := [][]interface{}{
		{"Run ID", r.ID},
		{"Root", r.Plan.Root},
		{"Generated", r.Generated.Format(time.RFC3339)},
		{"Suffixes", strings.Join(r.Plan.Suffixes, ", ")},
		{"Rows", len(r.Rows)},
		{"Skipped", strings.Join(r.Skipped, ", ")},
	}
	for i, p := range r.Plan.Probes {
		fit, err := r.Fit(i)
		if err != nil {
			summary = append(summary, []interface{}{"Sensitivity " + p.Label(), err.Error()})
			continue
		}
		summary = append(summary,
			[]interface{}{"Sensitivity " + p.Label(), fit.Slope},
			[]interface{}{"Intercept " + p.Label(), fit.Intercept},
			[]interface{}{"R2 " + p.Label(), fit.R2},
		)
	}

	for i, values := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(RunSheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
