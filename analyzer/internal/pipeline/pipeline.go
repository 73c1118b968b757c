package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/vibetrack/vibetrack/analyzer/internal/compute"
	"github.com/vibetrack/vibetrack/analyzer/internal/config"
	"github.com/vibetrack/vibetrack/analyzer/internal/ingest"
	"github.com/vibetrack/vibetrack/analyzer/internal/report"
	"github.com/vibetrack/vibetrack/analyzer/internal/series"
	"github.com/vibetrack/vibetrack/analyzer/internal/spectrum"
)

// Result is everything derived from one input.
type Result struct {
	Table       *series.Table
	Description compute.Description
	Metrics     compute.VibrationMetrics
	Spectrum    spectrum.Result
	Report      *report.Report
}

// Source is the identity of the analysed input.
func (r *Result) Source() string { return r.Table.Source() }

// Run loads the CSV file at path and analyses it with cfg.
func Run(path string, cfg config.Analysis) (*Result, error) {
	tbl, err := ingest.Load(path)
	if err != nil {
		return nil, err
	}
	return Analyze(tbl, cfg)
}

// Analyze runs every stage after ingest on tbl. Parameters are validated
// against the table before any computation starts.
func Analyze(tbl *series.Table, cfg config.Analysis) (*Result, error) {
	if err := cfg.ValidateFor(tbl.Len()); err != nil {
		return nil, fmt.Errorf("pipeline: %s: %w", tbl.Source(), err)
	}

	slog.Info("pipeline: loaded",
		"source", tbl.Source(),
		"samples", tbl.Len(),
		"duration", fmt.Sprintf("%.2f seconds", tbl.Duration()),
		"gyro", tbl.HasGyro(),
		"temperature", tbl.HasTemperature())
	if !tbl.Monotonic() {
		slog.Warn("pipeline: timestamps decrease, duration may be misleading",
			"source", tbl.Source())
	}

	withRMS, err := tbl.WithRollingRMS(cfg.RollingWindow)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %s: rolling rms: %w", tbl.Source(), err)
	}
	tbl = withRMS

	desc := compute.Describe(tbl)
	metrics := compute.Vibration(tbl)

	spec, err := spectrum.Analyze(tbl.Magnitude(), spectrum.Params{
		SampleRate:      cfg.SampleRate,
		MaxPeaks:        cfg.MaxPeaks,
		PeakHeightRatio: cfg.PeakHeightRatio,
		Segment:         cfg.SpectrogramSegment,
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: %s: %w", tbl.Source(), err)
	}
	if spec.Spectrogram.Clamped {
		slog.Info("pipeline: spectrogram segment clamped to input length",
			"source", tbl.Source(),
			"segment", spec.Spectrogram.Segment,
			"requested", cfg.SpectrogramSegment)
	}

	rep := report.Build(report.Metadata{
		Source:     tbl.Source(),
		Samples:    tbl.Len(),
		Duration:   tbl.Duration(),
		SampleRate: cfg.SampleRate,
	}, desc, metrics)

	if len(spec.Peaks) > 0 {
		slog.Info("pipeline: dominant frequencies",
			"source", tbl.Source(),
			"peaks", spec.PeakLines())
	} else {
		slog.Info("pipeline: no dominant frequencies above threshold",
			"source", tbl.Source(),
			"height_ratio", cfg.PeakHeightRatio)
	}

	slog.Debug("pipeline: analysed",
		"source", tbl.Source(),
		"rms", metrics.RMS,
		"peak", metrics.Peak,
		"intensity", metrics.Intensity,
		"peaks", len(spec.Peaks))

	return &Result{
		Table:       tbl,
		Description: desc,
		Metrics:     metrics,
		Spectrum:    spec,
		Report:      rep,
	}, nil
}

// RunBatch analyses paths with at most workers files in flight. The returned
// slice is indexed like paths; entries for failed files are nil and their
// errors are combined, in input order, into the returned error. A cancelled
// ctx stops files that have not started yet.
func RunBatch(ctx context.Context, paths []string, cfg config.Analysis, workers int) ([]*Result, error) {
	if workers <= 0 {
		workers = 1
	}

	results := make([]*Result, len(paths))
	errs := make([]error, len(paths))

	var g errgroup.Group
	g.SetLimit(workers)

	// Each goroutine owns index i of results and errs.
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = fmt.Errorf("pipeline: %s: %w", path, err)
				return nil
			}
			res, err := Run(path, cfg)
			if err != nil {
				slog.Error("pipeline: analysis failed", "source", path, "err", err)
				errs[i] = err
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	var merr *multierror.Error
	for _, err := range errs {
		if err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	return results, merr.ErrorOrNil()
}
