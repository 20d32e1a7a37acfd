// zdefects builds a defects dashboard from every *_zResults.csv file in a
// workspace.
//
// Usage:
//
//	zdefects                       # scan the workspace, write z/zDefectsDashboard.html
//	zdefects --root ./ws --summary # also print totals and categories
//	zdefects watch                 # regenerate whenever a result file changes
//	zdefects version
//
// Exit codes: 0 on success, 1 when the dashboard cannot be rendered or
// written, 2 for usage and configuration errors.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/dkoosis/zdefects/internal/config"
	"github.com/dkoosis/zdefects/internal/logging"
	"github.com/dkoosis/zdefects/internal/metrics"
	"github.com/dkoosis/zdefects/internal/version"
	"github.com/dkoosis/zdefects/internal/watch"
	"github.com/dkoosis/zdefects/internal/workspace"
	"github.com/dkoosis/zdefects/pkg/mapper"
	"github.com/dkoosis/zdefects/pkg/pattern"
	"github.com/dkoosis/zdefects/pkg/render"
	"github.com/dkoosis/zdefects/pkg/scan"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Getenv)
	stop()
	os.Exit(code)
}

// errUsage marks errors caused by how the tool was invoked.
var errUsage = errors.New("usage")

func usageError(err error) error {
	return fmt.Errorf("%w: %w", errUsage, err)
}

// app carries the I/O and flag state shared by all commands.
type app struct {
	stdout, stderr io.Writer
	getenv         config.Env
	flags          config.Flags
	summary        bool
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv config.Env) int {
	a := &app{stdout: stdout, stderr: stderr, getenv: getenv}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	fmt.Fprintf(stderr, "zdefects: %v\n", err)
	return exitCode(err)
}

func exitCode(err error) int {
	if errors.Is(err, errUsage) || errors.Is(err, config.ErrInvalid) {
		return 2
	}
	return 1
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zdefects",
		Short: "Build a defects dashboard from zResults.csv files",
		Long: `zdefects scans a workspace for *_zResults.csv files, keeps every failing
step, classifies it into a defect category and writes a self-contained HTML
dashboard to z/zDefectsDashboard.html under the workspace root.`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageError(fmt.Errorf("unexpected argument %q", args[0]))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := a.setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			return a.generate(cmd.Context(), cfg, log)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError(err) })

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.flags.Root, "root", "", "workspace root (default: working directory, or its parent when only that has z/)")
	pf.StringVar(&a.flags.ConfigFile, "config", "", "config file (default: <root>/"+config.FileName+")")
	pf.StringVarP(&a.flags.Output, "output", "o", "", "dashboard path, relative to the root (default "+workspace.DefaultOutput+")")
	pf.StringVar(&a.flags.Title, "title", "", "dashboard title")
	pf.IntVarP(&a.flags.Workers, "workers", "j", 0, "files parsed in parallel (0 = one per CPU, 1 = sequential)")
	pf.StringVar(&a.flags.Theme, "theme", "", "terminal theme for --summary: default, orca, mono")
	pf.BoolVar(&a.flags.NoColor, "no-color", false, "disable colors in --summary")
	pf.StringVar(&a.flags.LogLevel, "log-level", "", "debug, info, warn or error (default warn)")
	pf.StringVar(&a.flags.JSONPath, "json", "", "also write a JSON export to this path")
	pf.StringVar(&a.flags.YAMLPath, "yaml", "", "also write a YAML export to this path")
	pf.StringVar(&a.flags.MetricsPath, "metrics-file", "", "also write Prometheus textfile gauges to this path")
	pf.BoolVar(&a.summary, "summary", false, "print totals and the category table after writing")

	cmd.AddCommand(a.watchCmd(), a.versionCmd())
	return cmd
}

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the dashboard whenever a result file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := a.setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx := cmd.Context()
			if err := a.generate(ctx, cfg, log); err != nil {
				return err
			}
			w, err := watch.New(cfg.Root, watch.Options{
				Suffix:   cfg.Suffix,
				SkipDirs: cfg.SkipDirs,
				Exclude:  cfg.LocateOptions().Exclude,
				Logger:   log,
			}, func(ctx context.Context) error {
				return a.generate(ctx, cfg, log)
			})
			if err != nil {
				return err
			}
			log.Info("watching", zap.String("root", cfg.Root))
			return w.Run(ctx)
		},
	}
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(a.stdout, version.String())
		},
	}
}

// setup resolves configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	flags := a.flags
	flags.WorkersSet = cmd.Flags().Changed("workers")
	flags.NoColorSet = cmd.Flags().Changed("no-color")

	cwd, err := os.Getwd()
	if err != nil {
		return nil, nil, fmt.Errorf("working directory: %w", err)
	}
	cfg, err := config.Resolve(flags, a.getenv, cwd)
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(a.stderr, cfg.LogLevel)
	if err != nil {
		return nil, nil, usageError(err)
	}
	log.Debug("config resolved",
		zap.String("root", cfg.Root),
		zap.String("config_file", cfg.ConfigFile),
		zap.String("output", cfg.Output),
		zap.Any("sources", cfg.Sources))
	return cfg, log, nil
}

// generate runs one scan and writes the dashboard plus any exports.
func (a *app) generate(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	res, err := scan.Run(ctx, cfg.Root, scan.Options{
		Locate:  cfg.LocateOptions(),
		Parse:   cfg.ParseOptions(),
		Workers: cfg.Workers,
		Logger:  log,
	})
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		return usageError(err)
	}
	if res.Failed > 0 {
		log.Warn("some result files could not be read", zap.Int("files", res.Failed))
	}

	patterns := mapper.FromAggregate(res.Aggregate, mapper.Options{
		Title:        cfg.Title,
		TopPlans:     cfg.TopPlans,
		DisplayWidth: cfg.DisplayWidth,
	})

	html, err := render.NewHTML().Render(patterns)
	if err != nil {
		return err
	}
	if err := workspace.WriteFileAtomic(cfg.Output, []byte(html), 0o644); err != nil {
		return fmt.Errorf("write dashboard: %w", err)
	}
	if err := a.writeExports(cfg, patterns, res); err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Written %d defects to %s\n", len(res.Aggregate.Records), cfg.Output)

	if a.summary {
		out, err := a.summaryRenderer(cfg).Render(patterns[:2])
		if err != nil {
			return err
		}
		fmt.Fprint(a.stdout, out)
	}
	return nil
}

func (a *app) writeExports(cfg *config.Config, patterns []pattern.Pattern, res *scan.Result) error {
	exports := []struct {
		path string
		r    render.Renderer
	}{
		{cfg.Exports.JSON, render.NewJSON()},
		{cfg.Exports.YAML, render.NewYAML()},
	}
	for _, e := range exports {
		if e.path == "" {
			continue
		}
		out, err := e.r.Render(patterns)
		if err != nil {
			return err
		}
		if err := workspace.WriteFileAtomic(e.path, []byte(out), 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
	}
	if cfg.Exports.Metrics != "" {
		if err := metrics.WriteTextfile(cfg.Exports.Metrics, res.Aggregate); err != nil {
			return err
		}
	}
	return nil
}

// summaryRenderer picks styled output for a terminal and plain text otherwise.
func (a *app) summaryRenderer(cfg *config.Config) render.Renderer {
	f, ok := a.stdout.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return render.NewText()
	}
	theme, _ := render.ThemeByName(cfg.Theme)
	if cfg.NoColor {
		theme = render.MonoTheme()
	}
	width := 80
	if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
		width = tw
	}
	return render.NewTerminal(theme, width)
}
