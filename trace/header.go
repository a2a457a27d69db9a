package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	// GageMarker is the text on the probe line that announces the two extra
	// gage-length metadata lines.
	GageMarker = "Gage length:"

	// ProbeLine is the 1-indexed header line inspected for GageMarker.
	ProbeLine = 11

	// DefaultSkip is the number of metadata lines before the data section.
	DefaultSkip = 11

	// GageSkip is the number of metadata lines when gage length is enabled.
	GageSkip = DefaultSkip + 2
)

const maxLineSize = 1 << 20

// SniffSkip reads the probe line of the file at path and returns the number
// of leading lines to skip before the column header row.
func SniffSkip(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrFileAccess, path, err)
	}
	defer file.Close()

	skip, err := SniffSkipFromReader(file)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return skip, nil
}

// SniffSkipFromReader is SniffSkip for an already opened trace.
func SniffSkipFromReader(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for line := 1; scanner.Scan(); line++ {
		if line < ProbeLine {
			continue
		}
		if strings.Contains(scanner.Text(), GageMarker) {
			return GageSkip, nil
		}
		return DefaultSkip, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFileAccess, err)
	}
	return 0, ErrShortHeader
}
