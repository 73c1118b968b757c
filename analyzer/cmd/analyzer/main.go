package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/hashicorp/go-multierror"

	"github.com/vibetrack/vibetrack/analyzer/internal/config"
	"github.com/vibetrack/vibetrack/analyzer/internal/export"
	"github.com/vibetrack/vibetrack/analyzer/internal/inbox"
	"github.com/vibetrack/vibetrack/analyzer/internal/pipeline"
	"github.com/vibetrack/vibetrack/analyzer/internal/publish"
	"github.com/vibetrack/vibetrack/analyzer/internal/report"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPath    string
	sampleRate    float64
	window        int
	reportPath    string
	metricsPath   string
	watchDir      string
	printSpectrum bool
	logLevel      string
	paths         []string
}

func parseFlags(args []string, stderr io.Writer) (*options, *flag.FlagSet, error) {
	fs := flag.NewFlagSet("analyzer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: analyzer [flags] <data.csv>...")
		fs.PrintDefaults()
	}

	o := &options{}
	fs.StringVar(&o.configPath, "config", "", "path to config file (optional)")
	fs.Float64Var(&o.sampleRate, "sample-rate", config.DefaultSampleRate, "sampling rate in Hz")
	fs.IntVar(&o.window, "window", config.DefaultRollingWindow, "rolling RMS window in samples")
	fs.StringVar(&o.reportPath, "report", "", "report output path (default <input>_analysis.txt)")
	fs.StringVar(&o.metricsPath, "metrics", "", "write a Prometheus textfile to this path")
	fs.StringVar(&o.watchDir, "watch", "", "watch this directory and analyze new CSV files")
	fs.BoolVar(&o.printSpectrum, "print-spectrum", false, "print the dominant frequencies")
	fs.StringVar(&o.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	o.paths = fs.Args()
	return o, fs, nil
}

// applyFlags copies explicitly set flags over the file configuration.
func applyFlags(cfg *config.Config, o *options, fs *flag.FlagSet) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "sample-rate":
			cfg.Analysis.SampleRate = o.sampleRate
		case "window":
			cfg.Analysis.RollingWindow = o.window
		case "report":
			cfg.Report.Path = o.reportPath
		case "metrics":
			cfg.Export.MetricsPath = o.metricsPath
		case "watch":
			cfg.Inbox.Dir = o.watchDir
		}
	})
}

func run(args []string, stdout, stderr io.Writer) int {
	o, fs, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(o.logLevel)); err != nil {
		fmt.Fprintf(stderr, "Error: invalid -log-level %q\n", o.logLevel)
		return 2
	}
	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(o.configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	applyFlags(cfg, o, fs)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if len(o.paths) == 0 && cfg.Inbox.Dir == "" {
		fs.Usage()
		return 2
	}
	for _, p := range o.paths {
		if _, err := os.Stat(p); err != nil {
			fmt.Fprintf(stderr, "Error: File '%s' not found\n", p)
			return 1
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a := &app{cfg: cfg, printSpectrum: o.printSpectrum, stdout: stdout}
	a.analysis.Store(&cfg.Analysis)
	if cfg.MQTT.Enabled() {
		a.pub = publish.New(cfg.MQTT)
		defer a.pub.Close()
	}

	status := 0
	if len(o.paths) > 0 {
		if err := a.batch(ctx, o.paths); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			status = 1
		}
	}

	if cfg.Inbox.Dir != "" {
		if err := a.watch(ctx, o.configPath); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	return status
}

// app carries the configuration shared by batch and watch mode.
type app struct {
	cfg           *config.Config
	analysis      atomic.Pointer[config.Analysis]
	pub           *publish.Publisher
	printSpectrum bool
	stdout        io.Writer
}

// batch analyses the command-line inputs and emits their artifacts.
func (a *app) batch(ctx context.Context, paths []string) error {
	results, runErr := pipeline.RunBatch(ctx, paths, *a.analysis.Load(), a.cfg.Inbox.Workers)

	var ok []*pipeline.Result
	for _, r := range results {
		if r != nil {
			ok = append(ok, r)
		}
	}

	var merr *multierror.Error
	if runErr != nil {
		merr = multierror.Append(merr, runErr)
	}
	for _, r := range ok {
		reportPath := report.DefaultPath(r.Source())
		if len(paths) == 1 && a.cfg.Report.Path != "" {
			reportPath = a.cfg.Report.Path
		}
		if err := a.emit(ctx, r, reportPath); err != nil {
			merr = multierror.Append(merr, err)
		}
	}

	if len(ok) > 0 {
		if err := a.exportAll(ok); err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	return merr.ErrorOrNil()
}

// watch runs inbox mode until ctx is cancelled. Config file changes update
// the analysis parameters used for subsequent files.
func (a *app) watch(ctx context.Context, configPath string) error {
	if configPath != "" {
		go func() {
			err := config.Watch(ctx, configPath, func(updated *config.Config) {
				an := updated.Analysis
				a.analysis.Store(&an)
			})
			if err != nil {
				slog.Error("config watcher stopped", "err", err)
			}
		}()
	}

	w, err := inbox.New(a.cfg.Inbox, func(ctx context.Context, path string) error {
		res, err := pipeline.Run(path, *a.analysis.Load())
		if err != nil {
			return err
		}
		if err := a.emit(ctx, res, report.DefaultPath(path)); err != nil {
			return err
		}
		return a.exportAll([]*pipeline.Result{res})
	})
	if err != nil {
		return err
	}
	return w.Run(ctx)
}

// emit writes the report of one result, prints its dominant frequencies if
// asked to and publishes its summary.
func (a *app) emit(ctx context.Context, r *pipeline.Result, reportPath string) error {
	if err := report.WriteFile(reportPath, r.Report); err != nil {
		return err
	}
	slog.Info("report written", "source", r.Source(), "path", reportPath)
	fmt.Fprintf(a.stdout, "Report saved to: %s\n", reportPath)

	if a.printSpectrum {
		printPeaks(a.stdout, r)
	}

	if a.pub != nil {
		if err := a.pub.Publish(ctx, publish.NewSummary(r)); err != nil {
			return err
		}
	}
	return nil
}

// exportAll writes the configured machine-readable artifacts. The spectrum
// and spectrogram files describe a single input and are skipped for batches.
func (a *app) exportAll(results []*pipeline.Result) error {
	ex := a.cfg.Export

	if ex.MetricsPath != "" {
		entries := make([]export.Entry, 0, len(results))
		for _, r := range results {
			entries = append(entries, export.Entry{Source: r.Source(), Metrics: r.Metrics, Spectrum: r.Spectrum})
		}
		err := export.WriteFile(ex.MetricsPath, func(w io.Writer) error {
			return export.WriteMetricsSet(w, entries...)
		})
		if err != nil {
			return err
		}
		slog.Info("metrics written", "path", ex.MetricsPath, "sources", len(entries))
	}

	if ex.SpectrumPath == "" && ex.SpectrogramPath == "" {
		return nil
	}
	if len(results) != 1 {
		slog.Warn("spectrum exports skipped for multiple inputs",
			"spectrum_path", ex.SpectrumPath, "spectrogram_path", ex.SpectrogramPath)
		return nil
	}
	r := results[0]
	if ex.SpectrumPath != "" {
		if err := export.WriteFile(ex.SpectrumPath, func(w io.Writer) error {
			return export.WriteSpectrum(w, r.Spectrum)
		}); err != nil {
			return err
		}
	}
	if ex.SpectrogramPath != "" {
		if err := export.WriteFile(ex.SpectrogramPath, func(w io.Writer) error {
			return export.WriteSpectrogram(w, r.Spectrum.Spectrogram)
		}); err != nil {
			return err
		}
	}
	return nil
}

func printPeaks(w io.Writer, r *pipeline.Result) {
	if len(r.Spectrum.Peaks) == 0 {
		fmt.Fprintln(w, "No dominant frequencies found")
		return
	}
	fmt.Fprintln(w, "Dominant frequencies found:")
	for _, line := range r.Spectrum.PeakLines() {
		fmt.Fprintf(w, "  %s\n", line)
	}
}
