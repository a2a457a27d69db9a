// Package tracetest writes OBR trace fixtures for tests.
package tracetest

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// DefaultHeader is the column header row OBR software writes for a spectral
// shift scan, including the trailing empty field.
var DefaultHeader = []string{"Length (m)", "Spectral Shift (GHz)", ""}

// Fixture describes one trace file.
type Fixture struct {
	Gage   bool       // Write the two gage length lines
	Header []string   // Column header row (default: DefaultHeader)
	Rows   [][]string // Data rows
}

// Ramp returns a fixture with n rows of x = start + i*step and y = f(x).
func Ramp(start, step float64, n int, f func(x float64) float64) Fixture {
	rows := make([][]string, n)
	for i := range rows {
		x := start + float64(i)*step
		rows[i] = []string{format(x), format(f(x)), ""}
	}
	return Fixture{Rows: rows}
}

// Content renders the fixture as trace file text.
func Content(f Fixture) string {
	var b strings.Builder

	meta := []string{
		"OBR 4600 Scan",
		"Date: 2021-03-04",
		"Time: 10:21:44",
		"Device Under Test: smf",
		"Center Wavelength (nm): 1310.00",
		"Scan Range (nm): 21.30",
		"Gain (dB): 0",
		"Sensing Range (m): 2.0-2.6",
		"Resolution (mm): 10.0",
		"Sensor Spacing (cm): 1.0",
	}
	for _, line := range meta {
		b.WriteString(line + "\n")
	}
	if f.Gage {
		b.WriteString("Gage length: 1.00 cm\n")
		b.WriteString("Sensor Spacing: 0.50 cm\n")
		b.WriteString("\n")
	} else {
		b.WriteString("Measurement Type: Spectral Shift\n")
	}

	header := f.Header
	if header == nil {
		header = DefaultHeader
	}
	b.WriteString(strings.Join(header, "\t") + "\n")
	for _, row := range f.Rows {
		b.WriteString(strings.Join(row, "\t") + "\n")
	}
	return b.String()
}

// Write stores the fixture as dir/name and returns its path.
func Write(t testing.TB, dir, name string, f Fixture) string {
	t.Helper()
	return WriteRaw(t, dir, name, Content(f))
}

// WriteRaw stores content as dir/name and returns its path.
func WriteRaw(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create fixture dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	return path
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
