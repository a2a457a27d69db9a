package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/sartorproj/goobr/characterize"
)

// EnvPrefix is the prefix of environment overrides, e.g. OBR_SWEEP_ROOT.
const EnvPrefix = "OBR"

var (
	// ErrInvalid is returned when a configuration fails validation.
	ErrInvalid = errors.New("invalid configuration")

	// ErrNoRoot is returned by Plan when no sweep root is configured.
	ErrNoRoot = errors.New("sweep root not configured")
)

// Config is the complete obrtrace configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Sweep   SweepConfig   `yaml:"sweep" envconfig:"SWEEP"`
	Export  ExportConfig  `yaml:"export" envconfig:"EXPORT"`
}

// LoggingConfig selects the logger level and encoding.
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format      string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json console"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"required"` // stderr, stdout or a file path
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// SweepConfig describes a characterization sweep.
type SweepConfig struct {
	Root        string        `yaml:"root" envconfig:"ROOT"`
	Suffixes    []string      `yaml:"suffixes" envconfig:"SUFFIXES"`
	NumericOnly bool          `yaml:"numeric_only" envconfig:"NUMERIC_ONLY"`
	Order       []string      `yaml:"order" envconfig:"ORDER"`
	WholeName   bool          `yaml:"whole_name" envconfig:"WHOLE_NAME"`
	SkipRows    int           `yaml:"skip_rows" envconfig:"SKIP_ROWS" validate:"gte=0"`
	LevelUnit   string        `yaml:"level_unit" envconfig:"LEVEL_UNIT"`
	Levels      []float64     `yaml:"levels" envconfig:"LEVELS"`
	LevelScale  float64       `yaml:"level_scale" envconfig:"LEVEL_SCALE" validate:"ne=0"`
	Probes      []ProbeConfig `yaml:"probes" ignored:"true" validate:"dive"`
}

// ProbeConfig is one probe of a sweep. Probes are read from the file only.
type ProbeConfig struct {
	Name   string  `yaml:"name"`
	Suffix string  `yaml:"suffix"`
	Kind   string  `yaml:"kind" validate:"oneof=point mean"`
	X      float64 `yaml:"x"`
	XMax   float64 `yaml:"x_max"`
	Pair   int     `yaml:"pair" validate:"gte=0"`
}

// ExportConfig holds the sweep output files. An empty path disables that
// export.
type ExportConfig struct {
	TSVPath  string `yaml:"tsv" envconfig:"TSV"`
	XLSXPath string `yaml:"xlsx" envconfig:"XLSX"`
}

// Default returns the configuration used when no file is given: info level
// JSON logs on stderr, the Upper/Lower suffix pair and numeric prefixes.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stderr",
		},
		Sweep: SweepConfig{
			Suffixes:    []string{"Upper", "Lower"},
			NumericOnly: true,
			LevelScale:  1,
		},
		Export: ExportConfig{
			TSVPath: "characterization.txt",
		},
	}
}

// Load reads the YAML file at path over Default, applies OBR_ environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and probe windows.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	for i, p := range c.Sweep.Probes {
		if characterize.Kind(p.Kind) == characterize.KindMean && p.XMax <= p.X {
			return fmt.Errorf("%w: probe %d: x_max %g must exceed x %g", ErrInvalid, i, p.XMax, p.X)
		}
	}
	return nil
}

// Plan converts the sweep section to a characterization plan.
func (s SweepConfig) Plan() (characterize.Plan, error) {
	if s.Root == "" {
		return characterize.Plan{}, ErrNoRoot
	}

	plan := characterize.Plan{
		Root:        s.Root,
		Suffixes:    s.Suffixes,
		NumericOnly: s.NumericOnly,
		Order:       s.Order,
		WholeName:   s.WholeName,
		SkipRows:    s.SkipRows,
		LevelUnit:   s.LevelUnit,
		Levels:      s.Levels,
		LevelScale:  s.LevelScale,
	}
	for _, p := range s.Probes {
		plan.Probes = append(plan.Probes, characterize.Probe{
			Name:   p.Name,
			Suffix: p.Suffix,
			Kind:   characterize.Kind(p.Kind),
			X:      p.X,
			XMax:   p.XMax,
			Pair:   p.Pair,
		})
	}
	return plan, nil
}
