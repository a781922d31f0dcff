// Package main provides the tilefill command-line tool filling a directory or
// an S3 bucket with random files up to a volume budget.
// Copyright (C) 2021  Sylvain Gaunet

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.

// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/docker/go-units"
	"github.com/sgaunet/tilefill/pkg/app"
	"github.com/sgaunet/tilefill/pkg/config"
	"github.com/sgaunet/tilefill/pkg/constants"
	"github.com/sgaunet/tilefill/pkg/generator"
	"github.com/spf13/cobra"
)

var version = "development"

const unset = -1

// cliFlags holds command-line flag values. Empty strings and unset mean the
// flag was not given.
type cliFlags struct {
	configFile  string
	output      string
	workload    string
	workers     int
	widthMin    int
	widthMax    int
	heightMin   int
	heightMax   int
	template    string
	seed        uint64
	rateLimit   string
	metricsAddr string
	logFile     string
	printCfg    bool
}

func printConfiguration(w io.Writer) {
	c, err := config.NewConfigFromEnv()
	if err != nil {
		c = config.Default()
	}
	c.Usage()

	fmt.Fprintln(w, strings.Repeat("-", constants.SeparatorWidth))
	fmt.Fprintln(w, "Tilefill configuration:")
	fmt.Fprint(w, c.Redacted())
}

func loadConfiguration(cfgFile string) (*config.Config, error) {
	if len(cfgFile) > 0 {
		// For file config, don't validate yet (CLI overrides may fix issues)
		cfg, err := config.NewConfigFromFileNoValidate(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.NewConfigFromEnv()
	if err != nil {
		// If env loading fails, start with the defaults
		return config.Default(), nil //nolint:nilerr // defaults are a valid fallback
	}
	return cfg, nil
}

// applyCliOverrides applies command-line flag values to the configuration.
func applyCliOverrides(cfg *config.Config, flags cliFlags) error {
	if flags.output != "" {
		cfg.OutputDir = flags.output
	}
	if flags.workload != "" {
		v, err := units.RAMInBytes(flags.workload)
		if err != nil {
			return fmt.Errorf("invalid workload %q: %w", flags.workload, err)
		}
		cfg.Workload = v
	}
	if flags.workers > 0 {
		cfg.WorkerCount = flags.workers
	}

	// Ranges use -1 as "not set" since 0 is a valid bound
	if flags.widthMin != unset {
		cfg.WidthMin = flags.widthMin
	}
	if flags.widthMax != unset {
		cfg.WidthMax = flags.widthMax
	}
	if flags.heightMin != unset {
		cfg.HeightMin = flags.heightMin
	}
	if flags.heightMax != unset {
		cfg.HeightMax = flags.heightMax
	}

	if flags.template != "" {
		cfg.NameTemplate = flags.template
	}
	if flags.seed != 0 {
		cfg.Seed = flags.seed
	}
	if flags.rateLimit != "" {
		v, err := units.RAMInBytes(flags.rateLimit)
		if err != nil {
			return fmt.Errorf("invalid rate limit %q: %w", flags.rateLimit, err)
		}
		cfg.RateLimit = v
	}
	if flags.metricsAddr != "" {
		cfg.MetricsAddr = flags.metricsAddr
	}
	if flags.logFile != "" {
		cfg.LogFile = flags.logFile
	}
	return nil
}

func newRootCmd() *cobra.Command {
	var flags cliFlags
	cmd := &cobra.Command{
		Use:   "tilefill [flags]",
		Short: "Fill a directory or an S3 bucket with random files",
		Long: `tilefill writes files of random bytes, in five levels of increasing file
count, until the workload is spent. The workload is split equally between
concurrent workers.

CONFIGURATION PRECEDENCE:
  CLI flags > Config file > Environment variables`,
		Example: `  # Fill /data with 10 GiB using 8 workers
  tilefill --output /data --workload 10g --workers 8

  # Small files with a custom name
  tilefill -o /tmp/fill -w 64m --width-min 100 --width-max 200 --template 'f%(level)02d-%(file_id)s.bin'

  # Fill an S3 bucket (S3 config must be in config file or environment)
  tilefill -c s3-config.yaml`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.printCfg {
				printConfiguration(cmd.OutOrStdout())
				return nil
			}
			return run(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.configFile, "config", "c", "", "Path to configuration file (YAML)")
	f.StringVarP(&flags.output, "output", "o", "", "Output directory for local storage")
	f.StringVarP(&flags.workload, "workload", "w", "", "Total volume to write, e.g. 512m or 1g (default: 1g)")
	f.IntVar(&flags.workers, "workers", 0, "Number of concurrent workers (default: 4)")
	f.IntVar(&flags.widthMin, "width-min", unset, "Minimum bytes per write (default: 8000)")
	f.IntVar(&flags.widthMax, "width-max", unset, "Maximum bytes per write (default: 10000)")
	f.IntVar(&flags.heightMin, "height-min", unset, "Minimum writes per file (default: 3000)")
	f.IntVar(&flags.heightMax, "height-max", unset, "Maximum writes per file (default: 4000)")
	f.StringVar(&flags.template, "template", "", "File name template (default: "+constants.DefaultNameTemplate+")")
	f.Uint64Var(&flags.seed, "seed", 0, "Seed for reproducible sizes and content (0: random)")
	f.StringVar(&flags.rateLimit, "rate-limit", "", "Total write bandwidth per second, e.g. 100m (default: unlimited)")
	f.StringVar(&flags.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	f.StringVar(&flags.logFile, "log-file", "", "Write logs to this rotated file instead of stdout")
	f.BoolVar(&flags.printCfg, "cfg", false, "Print configuration and exit")
	return cmd
}

func run(ctx context.Context, out io.Writer, flags cliFlags) error {
	// Load base configuration
	cfg, err := loadConfiguration(flags.configFile)
	if err != nil {
		return err
	}
	if err := applyCliOverrides(cfg, flags); err != nil {
		return err
	}

	// Validate final configuration (after all overrides)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	a, err := app.NewApp(cfg)
	if err != nil {
		return err //nolint:wrapcheck // already descriptive
	}
	l, closeLog := initTrace(os.Getenv("DEBUGLEVEL"), cfg.NoLogTime, cfg.LogFile)
	defer closeLog()
	a.SetLogger(l)

	result, err := a.Run(ctx)
	if result != nil {
		printResult(out, result)
	}
	if err != nil {
		l.Error("error(s) occurred", "error", err)
		return err //nolint:wrapcheck // already logged with context
	}
	return nil
}

// printResult displays the outcome of a run.
func printResult(w io.Writer, result *generator.Result) {
	fmt.Fprintln(w, strings.Repeat("=", constants.SeparatorWidth))
	if result.FilesFailed() == 0 {
		fmt.Fprintln(w, "✓ FILL COMPLETE")
	} else {
		fmt.Fprintln(w, "✗ FILL COMPLETE WITH ERRORS")
	}
	fmt.Fprintln(w, strings.Repeat("=", constants.SeparatorWidth))

	fmt.Fprintf(w, "\nTarget: %s\n", result.Location)
	fmt.Fprintf(w, "Duration: %s\n", result.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "Files: %d written, %d failed\n", result.FilesWritten(), result.FilesFailed())
	fmt.Fprintf(w, "Written: %s\n", units.BytesSize(float64(result.BytesWritten())))
	fmt.Fprintf(w, "Budget per worker: %s (unallocated: %d bytes)\n",
		units.BytesSize(float64(result.PerWorkerBudget)), result.Unallocated)

	fmt.Fprintln(w, "\nWorkers:")
	for _, r := range result.Workers {
		fmt.Fprintf(w, "  #%d: %d files, %s of %s, levels %v\n",
			r.WorkerID, r.FilesWritten,
			units.BytesSize(float64(r.Consumed)), units.BytesSize(float64(r.Budget)),
			r.LevelCounts)
	}
	fmt.Fprintln(w, strings.Repeat("=", constants.SeparatorWidth))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		stop()
		os.Exit(1) //nolint:gocritic // stop is called explicitly above
	}
}
