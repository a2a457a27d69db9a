// Package discovery finds measurement directories and file prefixes.
package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// ErrDiscovery is returned when a directory cannot be listed.
var ErrDiscovery = errors.New("directory not listable")

// ErrNoLevel is returned when a prefix does not encode a numeric level.
var ErrNoLevel = errors.New("prefix has no numeric level")

// PrefixOptions holds options for prefix discovery.
type PrefixOptions struct {
	NumericOnly bool     // Keep prefixes starting with a digit
	Order       []string // Output order; prefixes not listed are dropped (optional)
	Ext         string   // Trace file extension (default: ".txt")
	Separator   string   // Prefix/suffix separator (default: "_")
	WholeName   bool     // Use the whole file stem as prefix
}

// DefaultPrefixOptions returns default options for prefix discovery.
func DefaultPrefixOptions() *PrefixOptions {
	return &PrefixOptions{
		Ext:       ".txt",
		Separator: "_",
	}
}

// Subdirectories returns the immediate subdirectories of root sorted by
// name, or root itself if it has none.
func Subdirectories(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDiscovery, root, err)
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(root, entry.Name()))
		}
	}
	if len(dirs) == 0 {
		return []string{root}, nil
	}
	sort.Strings(dirs)
	return dirs, nil
}

// FilePrefixes returns the unique prefixes of the trace files in dir.
// Without an Order the prefixes are sorted lexicographically; with one they
// follow Reorder.
func FilePrefixes(dir string, opts *PrefixOptions) ([]string, error) {
	if opts == nil {
		opts = DefaultPrefixOptions()
	}
	ext := opts.Ext
	if ext == "" {
		ext = ".txt"
	}
	sep := opts.Separator
	if sep == "" {
		sep = "_"
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDiscovery, dir, err)
	}

	seen := make(map[string]bool)
	var prefixes []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || !strings.HasSuffix(name, ext) {
			continue
		}

		prefix := strings.TrimSuffix(name, ext)
		if !opts.WholeName {
			prefix, _, _ = strings.Cut(prefix, sep)
		}
		if prefix == "" || seen[prefix] {
			continue
		}
		if opts.NumericOnly && !startsWithDigit(prefix) {
			continue
		}
		seen[prefix] = true
		prefixes = append(prefixes, prefix)
	}

	sort.Strings(prefixes)
	if len(opts.Order) > 0 {
		return Reorder(prefixes, opts.Order), nil
	}
	return prefixes, nil
}

// Reorder returns the names of order that occur in discovered, in the
// sequence of order. Names of discovered missing from order are dropped and
// repeated names of order are returned once.
func Reorder(discovered, order []string) []string {
	position := make(map[string]int, len(discovered))
	for i, name := range discovered {
		if _, ok := position[name]; !ok {
			position[name] = i
		}
	}

	indices := make([]int, 0, len(order))
	used := make(map[int]bool, len(order))
	for _, token := range order {
		i, ok := position[token]
		if !ok || used[i] {
			continue
		}
		used[i] = true
		indices = append(indices, i)
	}

	result := make([]string, len(indices))
	for k, i := range indices {
		result[k] = discovered[i]
	}
	return result
}

// ParseLevel returns the number encoded before unit in a prefix, such as 10
// for "10me" with unit "me". An empty unit parses the leading number.
func ParseLevel(prefix, unit string) (float64, error) {
	head := prefix
	if unit != "" {
		var found bool
		head, _, found = strings.Cut(prefix, unit)
		if !found {
			return 0, fmt.Errorf("%w: %q has no unit %q", ErrNoLevel, prefix, unit)
		}
	} else {
		end := 0
		for end < len(head) && (head[end] == '-' || head[end] == '.' || head[end] == '+' || unicode.IsDigit(rune(head[end]))) {
			end++
		}
		head = head[:end]
	}

	v, err := strconv.ParseFloat(head, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNoLevel, prefix)
	}
	return v, nil
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
