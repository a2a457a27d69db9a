// Package dataset assembles the trace tables of one measurement prefix.
package dataset

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/sartorproj/goobr/trace"
)

const (
	// Ext is the trace file extension.
	Ext = ".txt"

	// Separator joins prefix and suffix in a trace file name.
	Separator = "_"

	// ArtifactPrefix marks columns produced by blank header cells.
	ArtifactPrefix = "Unnamed"
)

var (
	// ErrEmptyDataset is returned when extracting from a dataset without tables.
	ErrEmptyDataset = errors.New("dataset has no tables")

	// ErrMissingDimension is returned when a table index or suffix is not
	// present in a dataset.
	ErrMissingDimension = errors.New("dataset has no such table")
)

// Group is the set of files of one measurement: dir/{prefix}_{suffix}.txt
// for each suffix, or dir/{prefix}.txt when there are no suffixes.
type Group struct {
	Dir      string
	Prefix   string
	Suffixes []string
}

// File is one path of a Group.
type File struct {
	Suffix string
	Path   string
}

// Files returns the group's files in suffix order.
func (g Group) Files() []File {
	if len(g.Suffixes) == 0 {
		return []File{{Path: filepath.Join(g.Dir, g.Prefix+Ext)}}
	}
	files := make([]File, len(g.Suffixes))
	for i, s := range g.Suffixes {
		files[i] = File{
			Suffix: s,
			Path:   filepath.Join(g.Dir, g.Prefix+Separator+s+Ext),
		}
	}
	return files
}

// Paths returns the group's file paths in suffix order.
func (g Group) Paths() []string {
	files := g.Files()
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths
}

// Dataset holds the tables of a Group that loaded successfully.
type Dataset struct {
	Group Group

	order  []string
	tables map[string]*trace.Table
	failed map[string]error
}

// Len returns the number of loaded tables.
func (d *Dataset) Len() int {
	return len(d.order)
}

// Empty reports whether no table was loaded.
func (d *Dataset) Empty() bool {
	return d == nil || len(d.order) == 0
}

// Suffixes returns the suffixes of the loaded tables in request order.
func (d *Dataset) Suffixes() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Missing returns the requested suffixes whose file failed to load.
func (d *Dataset) Missing() []string {
	var out []string
	for _, f := range d.Group.Files() {
		if _, ok := d.failed[f.Suffix]; ok {
			out = append(out, f.Suffix)
		}
	}
	return out
}

// Err returns the load error of suffix, or nil if it loaded.
func (d *Dataset) Err(suffix string) error {
	return d.failed[suffix]
}

// Table returns the table loaded for suffix. ok is false if the suffix was
// not requested or its file failed to load.
func (d *Dataset) Table(suffix string) (table *trace.Table, ok bool) {
	if d == nil {
		return nil, false
	}
	table, ok = d.tables[suffix]
	return table, ok
}

// At returns the dim-th loaded table. Failed loads leave no gap, so dim
// counts successful loads only; use Table to address a suffix by name.
func (d *Dataset) At(dim int) (*trace.Table, error) {
	if d.Empty() {
		return nil, ErrEmptyDataset
	}
	if dim < 0 || dim >= len(d.order) {
		return nil, fmt.Errorf("%w: index %d of %d tables", ErrMissingDimension, dim, len(d.order))
	}
	return d.tables[d.order[dim]], nil
}

// Lookup returns the table of suffix, or an error naming why it is absent.
func (d *Dataset) Lookup(suffix string) (*trace.Table, error) {
	if d.Empty() {
		return nil, ErrEmptyDataset
	}
	table, ok := d.tables[suffix]
	if !ok {
		if err := d.failed[suffix]; err != nil {
			return nil, fmt.Errorf("%w: suffix %q: %w", ErrMissingDimension, suffix, err)
		}
		return nil, fmt.Errorf("%w: suffix %q", ErrMissingDimension, suffix)
	}
	return table, nil
}

// Tables returns the loaded tables in request order.
func (d *Dataset) Tables() []*trace.Table {
	out := make([]*trace.Table, len(d.order))
	for i, s := range d.order {
		out[i] = d.tables[s]
	}
	return out
}

// Assembler loads Groups into Datasets.
type Assembler struct {
	logger         *zap.Logger
	loadOpts       *trace.LoadOptions
	artifactPrefix string
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger that receives per-file load failures.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Assembler) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithLoadOptions sets the trace loading options.
func WithLoadOptions(opts *trace.LoadOptions) Option {
	return func(a *Assembler) {
		a.loadOpts = opts
	}
}

// WithArtifactPrefix sets the column name prefix of stripped columns.
// An empty prefix keeps every column.
func WithArtifactPrefix(prefix string) Option {
	return func(a *Assembler) {
		a.artifactPrefix = prefix
	}
}

// NewAssembler creates an Assembler.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{
		logger:         zap.NewNop(),
		loadOpts:       trace.DefaultLoadOptions(),
		artifactPrefix: ArtifactPrefix,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble loads every file of g. Files that fail to load are logged and
// left out; the returned Dataset is never nil but may be empty.
func (a *Assembler) Assemble(g Group) *Dataset {
	ds := &Dataset{
		Group:  g,
		tables: make(map[string]*trace.Table),
		failed: make(map[string]error),
	}

	for _, f := range g.Files() {
		table, err := trace.Load(f.Path, a.loadOpts)
		if err != nil {
			a.logger.Warn("Skipping trace file",
				zap.String("path", f.Path),
				zap.String("suffix", f.Suffix),
				zap.Error(err))
			ds.failed[f.Suffix] = err
			continue
		}

		if a.artifactPrefix != "" {
			table = table.DropColumns(func(name string) bool {
				return strings.HasPrefix(name, a.artifactPrefix)
			})
		}
		ds.tables[f.Suffix] = table
		ds.order = append(ds.order, f.Suffix)
	}

	if ds.Empty() {
		a.logger.Warn("No trace file loaded",
			zap.String("dir", g.Dir),
			zap.String("prefix", g.Prefix),
			zap.Strings("suffixes", g.Suffixes))
	} else {
		a.logger.Debug("Dataset assembled",
			zap.String("prefix", g.Prefix),
			zap.Int("tables", ds.Len()))
	}
	return ds
}

// Assemble loads dir/{prefix}_{suffix}.txt for each suffix with a default
// Assembler.
func Assemble(dir, prefix string, suffixes []string) *Dataset {
	return NewAssembler().Assemble(Group{Dir: dir, Prefix: prefix, Suffixes: suffixes})
}
