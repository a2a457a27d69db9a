package characterize

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sartorproj/goobr/bounds"
	"github.com/sartorproj/goobr/dataset"
	"github.com/sartorproj/goobr/discovery"
	"github.com/sartorproj/goobr/measure"
	"github.com/sartorproj/goobr/trace"
)

// Kind is the type of a probe measurement.
type Kind string

const (
	KindPoint Kind = "point" // Interpolated value at X
	KindMean  Kind = "mean"  // Interval mean over [X, XMax)
)

// Probe is one measurement taken from every dataset of a sweep.
type Probe struct {
	Name   string
	Suffix string // Table to read; empty for unsuffixed files
	Kind   Kind
	X      float64 // Position (point) or interval start (mean)
	XMax   float64 // Interval end (mean only)
	Pair   int     // Column pair of multi-curve files
}

// Label returns the probe name, or a generated one.
func (p Probe) Label() string {
	if p.Name != "" {
		return p.Name
	}
	switch p.Kind {
	case KindMean:
		return fmt.Sprintf("%s mean %g-%g", p.Suffix, p.X, p.XMax)
	default:
		return fmt.Sprintf("%s point %g", p.Suffix, p.X)
	}
}

// Plan describes a characterization sweep.
type Plan struct {
	Root        string
	Suffixes    []string
	NumericOnly bool
	Order       []string
	WholeName   bool
	SkipRows    int       // Fixed header length (0: sniff)
	LevelUnit   string    // Unit token after the level in a prefix, e.g. "me"
	Levels      []float64 // Explicit levels by sweep position (optional)
	LevelScale  float64   // Level multiplier (default: 1)
	Probes      []Probe
}

// Row is the result of one dataset.
type Row struct {
	Dir    string
	Prefix string
	Level  float64
	Values []float64 // One per probe; NaN when the probe failed
}

// Result is the outcome of a sweep.
type Result struct {
	ID        string
	Generated time.Time
	Plan      Plan
	Rows      []Row
	Bounds    map[string]bounds.Tracker // Overlay bounds per suffix
	Skipped   []string                  // Datasets without tables
}

// Column returns the values of probe i in row order.
func (r *Result) Column(i int) []float64 {
	out := make([]float64, len(r.Rows))
	for k, row := range r.Rows {
		out[k] = math.NaN()
		if i >= 0 && i < len(row.Values) {
			out[k] = row.Values[i]
		}
	}
	return out
}

// Levels returns the row levels in order.
func (r *Result) Levels() []float64 {
	out := make([]float64, len(r.Rows))
	for k, row := range r.Rows {
		out[k] = row.Level
	}
	return out
}

// Runner executes sweep plans.
type Runner struct {
	logger    *zap.Logger
	assembler *dataset.Assembler
	now       func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithAssembler sets the dataset assembler. By default the runner builds
// one from the plan's SkipRows and its own logger.
func WithAssembler(a *dataset.Assembler) Option {
	return func(r *Runner) {
		r.assembler = a
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes plan. Per-directory and per-file failures are logged and
// skipped; an error is returned only when the root cannot be listed.
func (r *Runner) Run(plan Plan) (*Result, error) {
	if plan.LevelScale == 0 {
		plan.LevelScale = 1
	}

	dirs, err := discovery.Subdirectories(plan.Root)
	if err != nil {
		r.logger.Error("Cannot list sweep root", zap.String("root", plan.Root), zap.Error(err))
		return nil, err
	}

	asm := r.assembler
	if asm == nil {
		loadOpts := trace.DefaultLoadOptions()
		loadOpts.SkipRows = plan.SkipRows
		asm = dataset.NewAssembler(dataset.WithLogger(r.logger), dataset.WithLoadOptions(loadOpts))
	}

	result := &Result{
		ID:        uuid.NewString(),
		Generated: r.now(),
		Plan:      plan,
		Bounds:    make(map[string]bounds.Tracker),
	}

	prefixOpts := &discovery.PrefixOptions{
		NumericOnly: plan.NumericOnly,
		Order:       plan.Order,
		WholeName:   plan.WholeName,
	}

	position := 0
	for _, dir := range dirs {
		prefixes, err := discovery.FilePrefixes(dir, prefixOpts)
		if err != nil {
			r.logger.Warn("Skipping directory", zap.String("dir", dir), zap.Error(err))
			continue
		}
		r.logger.Debug("Discovered prefixes", zap.String("dir", dir), zap.Strings("prefixes", prefixes))

		for _, prefix := range prefixes {
			ds := asm.Assemble(dataset.Group{Dir: dir, Prefix: prefix, Suffixes: plan.Suffixes})
			if ds.Empty() {
				result.Skipped = append(result.Skipped, filepath.Join(dir, prefix))
				continue
			}

			row := Row{
				Dir:    dir,
				Prefix: prefix,
				Level:  r.level(plan, position, prefix),
				Values: make([]float64, len(plan.Probes)),
			}
			position++

			for i, p := range plan.Probes {
				row.Values[i] = r.probe(ds, p)
			}
			r.track(result, ds)
			result.Rows = append(result.Rows, row)
		}
	}

	r.logger.Info("Sweep complete",
		zap.String("id", result.ID),
		zap.String("root", plan.Root),
		zap.Int("rows", len(result.Rows)),
		zap.Int("skipped", len(result.Skipped)))
	return result, nil
}

func (r *Runner) level(plan Plan, position int, prefix string) float64 {
	if len(plan.Levels) > 0 {
		if position < len(plan.Levels) {
			return plan.Levels[position] * plan.LevelScale
		}
		r.logger.Warn("No level for sweep position", zap.Int("position", position), zap.String("prefix", prefix))
		return math.NaN()
	}

	level, err := discovery.ParseLevel(prefix, plan.LevelUnit)
	if err != nil {
		r.logger.Warn("Cannot parse level", zap.String("prefix", prefix), zap.Error(err))
		return math.NaN()
	}
	return level * plan.LevelScale
}

func (r *Runner) probe(ds *dataset.Dataset, p Probe) float64 {
	table, err := ds.Lookup(p.Suffix)
	if err != nil {
		r.logger.Warn("Probe table missing",
			zap.String("prefix", ds.Group.Prefix),
			zap.String("probe", p.Label()),
			zap.Error(err))
		return math.NaN()
	}

	cols := measure.PairColumns(p.Pair)
	var v float64
	switch p.Kind {
	case KindMean:
		domain, derr := measure.Domain(table, cols)
		if derr == nil && !domain.Contains(bounds.Range{Min: p.X, Max: p.XMax}) {
			err = fmt.Errorf("window [%g, %g] outside [%g, %g]", p.X, p.XMax, domain.Min, domain.Max)
			break
		}
		v, err = measure.Mean(table, cols, p.X, p.XMax)
	default:
		v, err = measure.Interpolate(table, cols, p.X)
	}
	if err != nil {
		r.logger.Warn("Probe failed",
			zap.String("prefix", ds.Group.Prefix),
			zap.String("probe", p.Label()),
			zap.Error(err))
		return math.NaN()
	}
	return v
}

func (r *Runner) track(result *Result, ds *dataset.Dataset) {
	for _, suffix := range ds.Suffixes() {
		table, _ := ds.Table(suffix)
		tracker, err := result.Bounds[suffix].AddTable(table, 0, 1)
		if err != nil {
			r.logger.Debug("No bounds for table", zap.String("path", table.Source), zap.Error(err))
			continue
		}
		result.Bounds[suffix] = tracker
	}
}

// ErrInsufficientData is returned when a fit has fewer than two points.
var ErrInsufficientData = errors.New("not enough points to fit")

// Fit is a least-squares line value = Slope*level + Intercept.
type Fit struct {
	Slope     float64
	Intercept float64
	R2        float64
	N         int
}

// Fit regresses the values of probe i on the row levels, skipping rows
// where either is NaN. The slope is the sensor sensitivity.
func (r *Result) Fit(i int) (Fit, error) {
	return LinearFit(r.Levels(), r.Column(i))
}

// LinearFit fits y = Slope*x + Intercept by ordinary least squares over the
// pairs where neither value is NaN.
func LinearFit(x, y []float64) (Fit, error) {
	var sx, sy []float64
	for i := 0; i < len(x) && i < len(y); i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		sx = append(sx, x[i])
		sy = append(sy, y[i])
	}
	n := len(sx)
	if n < 2 {
		return Fit{N: n}, ErrInsufficientData
	}

	meanX, meanY := 0.0, 0.0
	for i := range sx {
		meanX += sx[i]
		meanY += sy[i]
	}
	meanX /= float64(n)
	meanY /= float64(n)

	sxx, sxy, syy := 0.0, 0.0, 0.0
	for i := range sx {
		dx := sx[i] - meanX
		dy := sy[i] - meanY
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}
	if sxx == 0 {
		return Fit{N: n}, fmt.Errorf("%w: all levels equal", ErrInsufficientData)
	}

	fit := Fit{
		Slope: sxy / sxx,
		N:     n,
	}
	fit.Intercept = meanY - fit.Slope*meanX
	if syy == 0 {
		fit.R2 = 1
	} else {
		fit.R2 = sxy * sxy / (sxx * syy)
	}
	return fit, nil
}
