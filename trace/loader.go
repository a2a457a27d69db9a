package trace

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrFileAccess is returned when a trace file cannot be opened or read.
	ErrFileAccess = errors.New("trace file not readable")

	// ErrParse is returned when the header or table structure is malformed.
	ErrParse = errors.New("malformed trace file")

	// ErrShortHeader is returned when a file ends before the probe line.
	ErrShortHeader = fmt.Errorf("%w: fewer than %d header lines", ErrParse, ProbeLine)
)

// LoadOptions holds options for trace loading.
type LoadOptions struct {
	SkipRows      int      // Lines before the column header row (0: sniff the probe line)
	Delimiter     rune     // Field delimiter (default: '\t')
	MissingTokens []string // Cell texts read as missing values
}

// DefaultLoadOptions returns default options for OBR trace loading.
func DefaultLoadOptions() *LoadOptions {
	return &LoadOptions{
		Delimiter:     '\t',
		MissingTokens: []string{"", "NA", "NaN", "nan", "null", "-"},
	}
}

// Load reads the trace file at path into a Table. The file is read in full
// and closed before parsing.
func Load(path string, opts *LoadOptions) (*Table, error) {
	if opts == nil {
		opts = DefaultLoadOptions()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileAccess, path, err)
	}

	skip := opts.SkipRows
	if skip <= 0 {
		skip, err = SniffSkipFromReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	table, err := LoadFromReader(bytes.NewReader(data), skip, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	table.Source = path
	return table, nil
}

// LoadFromReader parses a trace from r, skipping exactly skip lines before
// the column header row. Blank lines after the skipped block are ignored.
func LoadFromReader(r io.Reader, skip int, opts *LoadOptions) (*Table, error) {
	if opts == nil {
		opts = DefaultLoadOptions()
	}
	delimiter := opts.Delimiter
	if delimiter == 0 {
		delimiter = '\t'
	}
	missing := make(map[string]bool, len(opts.MissingTokens))
	for _, tok := range opts.MissingTokens {
		missing[tok] = true
	}

	br := bufio.NewReader(r)
	for i := 0; i < skip; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("%w: input ends after %d of %d header lines", ErrParse, i, skip)
			}
			return nil, fmt.Errorf("%w: %w", ErrFileAccess, err)
		}
	}

	reader := csv.NewReader(br)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: missing column header row", ErrParse)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: column header row: %w", ErrParse, err)
	}

	names := sanitizeHeader(header)
	if len(names) < 2 {
		return nil, fmt.Errorf("%w: expected at least 2 columns, got %d", ErrParse, len(names))
	}

	table := &Table{Columns: make([]Column, len(names))}
	for i, name := range names {
		table.Columns[i].Name = name
	}

	// Read data rows
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			record = nil
		} else if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFileAccess, err)
		}

		for i := range table.Columns {
			cell := Missing()
			if i < len(record) {
				cell = parseCell(record[i], missing)
			}
			table.Columns[i].Cells = append(table.Columns[i].Cells, cell)
		}
	}

	return table, nil
}

func parseCell(field string, missing map[string]bool) Cell {
	s := strings.TrimSpace(strings.Trim(field, "\""))
	if missing[s] {
		return Missing()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return Missing()
	}
	return Number(v)
}

// sanitizeHeader names blank header cells "Unnamed: <index>" and numbers
// repeated names as "name.1", "name.2".
func sanitizeHeader(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.Trim(h, "\""))
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		base := name
		for n := seen[base]; ; n++ {
			if _, taken := seen[name]; !taken {
				break
			}
			name = base + "." + strconv.Itoa(n+1)
			seen[base] = n + 1
		}
		seen[name] = 0
		names[i] = name
	}
	return names
}
