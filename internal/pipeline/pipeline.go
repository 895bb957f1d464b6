// Package pipeline sequences the preprocessing stages for each dataset and
// isolates failures so one bad dataset never aborts the batch.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"cropprep/internal/cleaner"
	"cropprep/internal/config"
	xerrors "cropprep/internal/errors"
	"cropprep/internal/exporter"
	"cropprep/internal/features"
	"cropprep/internal/infrastructure"
	"cropprep/internal/loader"
	"cropprep/internal/table"
)

// Report records what happened to one dataset during a pipeline run
type Report struct {
	RunID             string
	Dataset           string
	OutputPath        string
	OriginalRows      int
	OriginalCols      int
	ProcessedRows     int
	ProcessedCols     int
	DuplicatesRemoved int
	MissingBefore     int
	MissingAfter      int
	KindCounts        map[string]int
	Transforms        []string
	Duration          time.Duration
	Err               error
}

// Failed reports whether the dataset's pipeline run failed
func (r *Report) Failed() bool {
	return r.Err != nil
}

// Runner orchestrates the load → clean → engineer → persist pipeline
type Runner struct {
	cfg    *config.Config
	loader *loader.Loader
	clean  *cleaner.Cleaner
	eng    *features.Engineer
	writer *exporter.CSVWriter
	logger *slog.Logger
}

// NewRunner wires the pipeline stages from configuration
func NewRunner(cfg *config.Config, paths *config.Paths, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:    cfg,
		loader: loader.New(logger),
		clean:  cleaner.New(logger, cfg.Pipeline.MissingStrategy),
		eng:    features.New(cfg.Pipeline, logger),
		writer: exporter.NewCSVWriter(paths, logger),
		logger: logger,
	}
}

// ProcessFile runs one dataset through the full pipeline. Nothing is
// persisted unless every stage succeeds.
func (r *Runner) ProcessFile(ctx context.Context, path string) *Report {
	name := filepath.Base(path)
	report := &Report{
		RunID:   infrastructure.GetRunID(ctx),
		Dataset: name,
	}
	started := time.Now()
	defer func() {
		report.Duration = time.Since(started)
	}()

	log := r.logger.With(slog.String("dataset", name))
	log.InfoContext(ctx, "processing dataset", slog.String("path", path))

	t, kinds, err := r.loader.Load(path)
	if err != nil {
		report.Err = xerrors.NewStageError(name, "load", err)
		return report
	}
	report.OriginalRows = t.Rows()
	report.OriginalCols = t.Cols()
	report.MissingBefore = t.MissingTotal()
	report.KindCounts = countKinds(kinds)

	if removed := r.clean.DropDuplicates(t); removed > 0 {
		report.DuplicatesRemoved = removed
		report.Transforms = append(report.Transforms, "drop_duplicates")
	}

	// Kinds were assigned at load and survive deduplication unchanged.
	rowsBeforeImpute := t.Rows()
	r.clean.Impute(t, kinds)
	report.Transforms = append(report.Transforms, "impute")

	if err := r.clean.Validate(t, kinds, rowsBeforeImpute); err != nil {
		report.Err = xerrors.NewStageError(name, "validate", err)
		return report
	}

	report.Transforms = append(report.Transforms, r.eng.Process(t, kinds)...)
	report.ProcessedRows = t.Rows()
	report.ProcessedCols = t.Cols()
	report.MissingAfter = t.MissingTotal()

	outPath, err := r.writer.WriteProcessed(name, t)
	if err != nil {
		report.Err = xerrors.NewStageError(name, "persist", err)
		return report
	}
	report.OutputPath = outPath

	log.InfoContext(ctx, "dataset processed",
		slog.Group("shape",
			slog.Int("rows_in", report.OriginalRows),
			slog.Int("cols_in", report.OriginalCols),
			slog.Int("rows_out", report.ProcessedRows),
			slog.Int("cols_out", report.ProcessedCols)),
		slog.Int("duplicates_removed", report.DuplicatesRemoved),
		slog.Int("missing_before", report.MissingBefore),
		slog.Int("missing_after", report.MissingAfter),
		slog.Any("transforms", report.Transforms),
		slog.Duration("duration", report.Duration))

	return report
}

// RunBatch processes each dataset start-to-finish before the next begins.
// A failed dataset is logged with its stage and cause, and the batch moves
// on; the returned reports cover every input in order.
func (r *Runner) RunBatch(ctx context.Context, paths []string) []*Report {
	reports := make([]*Report, 0, len(paths))

	for _, path := range paths {
		report := r.ProcessFile(ctx, path)
		reports = append(reports, report)

		if report.Failed() {
			var se *xerrors.StageError
			stage := "unknown"
			if errors.As(report.Err, &se) {
				stage = se.Stage
			}
			r.logger.ErrorContext(ctx, "dataset failed",
				slog.String("dataset", report.Dataset),
				slog.String("stage", stage),
				slog.String("error", report.Err.Error()))
		}
	}

	succeeded := 0
	for _, report := range reports {
		if !report.Failed() {
			succeeded++
		}
	}
	r.logger.InfoContext(ctx, "batch complete",
		slog.Int("datasets", len(reports)),
		slog.Int("succeeded", succeeded),
		slog.Int("failed", len(reports)-succeeded))

	return reports
}

func countKinds(kinds map[string]table.Kind) map[string]int {
	out := make(map[string]int)
	for _, kind := range kinds {
		out[kind.String()]++
	}
	return out
}
