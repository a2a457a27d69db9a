// Command obrtrace inspects OBR trace files and runs characterization sweeps.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sartorproj/goobr/characterize"
	"github.com/sartorproj/goobr/dataset"
	"github.com/sartorproj/goobr/discovery"
	"github.com/sartorproj/goobr/internal/config"
	"github.com/sartorproj/goobr/internal/logging"
	"github.com/sartorproj/goobr/measure"
	"github.com/sartorproj/goobr/trace"
)

// app holds the state shared by subcommands once the root pre-run has
// loaded the configuration.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "obrtrace",
		Short: "Inspect OBR trace files and characterize fiber sensors",
		Long: `obrtrace loads tab-separated OBR trace exports, extracts interpolated
points and interval means from them, and sweeps measurement directories into
a characterization table of sensor response against strain or temperature.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if a.verbose {
				cfg.Logging.Level = "debug"
			}
			logger, err := logging.New(cfg.Logging)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		a.inspectCmd(),
		a.prefixesCmd(),
		a.pointCmd(),
		a.meanCmd(),
		a.sweepCmd(),
	)
	return root
}

func (a *app) inspectCmd() *cobra.Command {
	var skip int
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show the header length, columns and ranges of a trace file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			opts := trace.DefaultLoadOptions()
			opts.SkipRows = skip
			if skip <= 0 {
				sniffed, err := trace.SniffSkip(path)
				if err != nil {
					return err
				}
				opts.SkipRows = sniffed
			}

			table, err := trace.Load(path, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "File:    %s\n", path)
			fmt.Fprintf(out, "Skipped: %d lines\n", opts.SkipRows)
			fmt.Fprintf(out, "Rows:    %d\n\n", table.NumRows())

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "#\tColumn\tPresent\tMin\tMax\tMean")
			for i := range table.Columns {
				c := &table.Columns[i]
				fmt.Fprintf(w, "%d\t%s\t%d\t%g\t%g\t%g\n", i, c.Name, c.Present(), c.Min(), c.Max(), c.Mean())
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&skip, "skip", 0, "Fixed header length (0: sniff)")
	return cmd
}

func (a *app) prefixesCmd() *cobra.Command {
	var (
		numeric   bool
		order     []string
		wholeName bool
	)
	cmd := &cobra.Command{
		Use:   "prefixes <dir>",
		Short: "List the measurement prefixes of a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := discovery.DefaultPrefixOptions()
			opts.NumericOnly = numeric
			opts.Order = order
			opts.WholeName = wholeName

			prefixes, err := discovery.FilePrefixes(args[0], opts)
			if err != nil {
				return err
			}
			for _, p := range prefixes {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&numeric, "numeric", false, "Keep only prefixes starting with a digit")
	cmd.Flags().StringSliceVar(&order, "order", nil, "Explicit prefix order; unlisted prefixes are dropped")
	cmd.Flags().BoolVar(&wholeName, "whole-name", false, "Use the whole file stem as prefix")
	return cmd
}

// datasetFlags are shared by the point and mean commands.
type datasetFlags struct {
	suffixes []string
	table    string
	dim      int
	pair     int
	skip     int
}

func (f *datasetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.suffixes, "suffix", "s", nil, "File suffixes to assemble (default: sweep.suffixes)")
	cmd.Flags().StringVarP(&f.table, "table", "t", "", "Suffix of the table to measure")
	cmd.Flags().IntVarP(&f.dim, "dim", "d", 0, "Position of the table among the loaded ones (used without --table)")
	cmd.Flags().IntVar(&f.pair, "pair", 0, "Column pair of multi-curve files")
	cmd.Flags().IntVar(&f.skip, "skip", 0, "Fixed header length (0: sniff)")
}

// lookup assembles dir/prefix and returns the table selected by the flags.
func (a *app) lookup(f *datasetFlags, dir, prefix string) (*trace.Table, error) {
	suffixes := f.suffixes
	if len(suffixes) == 0 {
		suffixes = a.cfg.Sweep.Suffixes
	}
	skip := f.skip
	if skip == 0 {
		skip = a.cfg.Sweep.SkipRows
	}

	opts := trace.DefaultLoadOptions()
	opts.SkipRows = skip
	asm := dataset.NewAssembler(dataset.WithLogger(a.logger), dataset.WithLoadOptions(opts))
	ds := asm.Assemble(dataset.Group{Dir: dir, Prefix: prefix, Suffixes: suffixes})

	if f.table != "" {
		return ds.Lookup(f.table)
	}
	return ds.At(f.dim)
}

func (a *app) pointCmd() *cobra.Command {
	var flags datasetFlags
	cmd := &cobra.Command{
		Use:   "point <dir> <prefix> <x>",
		Short: "Interpolate a trace at x",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := parseFloats(args[2])
			if err != nil {
				return err
			}
			table, err := a.lookup(&flags, args[0], args[1])
			if err != nil {
				return err
			}
			v, err := measure.Interpolate(table, measure.PairColumns(flags.pair), x[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(v, 'g', -1, 64))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) meanCmd() *cobra.Command {
	var flags datasetFlags
	cmd := &cobra.Command{
		Use:   "mean <dir> <prefix> <xmin> <xmax>",
		Short: "Average a trace over [xmin, xmax)",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			window, err := parseFloats(args[2], args[3])
			if err != nil {
				return err
			}
			table, err := a.lookup(&flags, args[0], args[1])
			if err != nil {
				return err
			}
			v, err := measure.Mean(table, measure.PairColumns(flags.pair), window[0], window[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(v, 'g', -1, 64))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) sweepCmd() *cobra.Command {
	var root, tsvPath, xlsxPath string
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the configured characterization sweep and export it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sweep := a.cfg.Sweep
			if root != "" {
				sweep.Root = root
			}
			plan, err := sweep.Plan()
			if err != nil {
				return err
			}
			if len(plan.Probes) == 0 {
				return fmt.Errorf("%w: sweep has no probes", config.ErrInvalid)
			}

			result, err := characterize.NewRunner(characterize.WithLogger(a.logger)).Run(plan)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("tsv") {
				a.cfg.Export.TSVPath = tsvPath
			}
			if cmd.Flags().Changed("xlsx") {
				a.cfg.Export.XLSXPath = xlsxPath
			}
			if p := a.cfg.Export.TSVPath; p != "" {
				if err := characterize.SaveTSV(p, result); err != nil {
					return err
				}
				a.logger.Info("Saved characterization", zap.String("path", p))
			}
			if p := a.cfg.Export.XLSXPath; p != "" {
				if err := characterize.SaveXLSX(p, result); err != nil {
					return err
				}
				a.logger.Info("Saved characterization", zap.String("path", p))
			}

			return printResult(cmd, result)
		},
	}
	cmd.Flags().StringVar(&root, "root", "", "Sweep root (overrides sweep.root)")
	cmd.Flags().StringVar(&tsvPath, "tsv", "", "TSV output path (overrides export.tsv, empty disables)")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "XLSX output path (overrides export.xlsx, empty disables)")
	return cmd
}

func printResult(cmd *cobra.Command, result *characterize.Result) error {
	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(append([]string{"Dir"}, result.Header()...), "\t"))
	for _, row := range result.Rows {
		cells := []string{row.Dir, strconv.FormatFloat(row.Level, 'g', -1, 64)}
		for _, v := range row.Values {
			cells = append(cells, strconv.FormatFloat(v, 'g', 6, 64))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	for i, p := range result.Plan.Probes {
		fit, err := result.Fit(i)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", p.Label(), err)
			continue
		}
		fmt.Fprintf(out, "%s: sensitivity %.6g, intercept %.6g, R2 %.4f (n=%d)\n",
			p.Label(), fit.Slope, fit.Intercept, fit.R2, fit.N)
	}
	if len(result.Skipped) > 0 {
		fmt.Fprintf(out, "Skipped: %s\n", strings.Join(result.Skipped, ", "))
	}
	return nil
}

func parseFloats(args ...string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, s := range args {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", s)
		}
		out[i] = v
	}
	return out, nil
}
