// Command preprocess runs the crop-data preprocessing batch: it discovers
// raw CSV/Excel datasets, pipes each one through cleaning and feature
// engineering, and writes the processed CSVs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"cropprep/internal/config"
	"cropprep/internal/files"
	"cropprep/internal/infrastructure"
	"cropprep/internal/pipeline"
)

func main() {
	os.Exit(run())
}

func run() int {
	inDir := flag.String("in", "", "input directory for raw datasets (defaults to data/raw relative to executable)")
	outDir := flag.String("out", "", "output directory for processed CSVs (defaults to data/processed relative to executable)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return 1
	}

	paths, err := config.GetPaths(cfg.Paths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve paths: %v\n", err)
		return 1
	}
	if *inDir != "" {
		paths.RawDir = *inDir
	}
	if *outDir != "" {
		paths.ProcessedDir = *outDir
	}
	if err := paths.EnsureDirectories(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create directories: %v\n", err)
		return 1
	}

	cfg.Logging.FilePath = paths.LogFile(cfg.Logging.FilePath)
	logger := infrastructure.MustInitializeLogger(cfg.Logging)
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.WithRunID(context.Background(), infrastructure.NewRunID())

	discovery := files.NewDiscovery(paths.BaseDir)
	datasets, err := discovery.FindTabularFiles(paths.RawDir)
	if err != nil {
		logger.ErrorContext(ctx, "dataset discovery failed", slog.String("error", err.Error()))
		return 1
	}
	if len(datasets) == 0 {
		logger.WarnContext(ctx, "no datasets found", slog.String("raw_dir", paths.RawDir))
		return 0
	}
	logger.InfoContext(ctx, "starting preprocessing batch",
		slog.Int("datasets", len(datasets)),
		slog.String("raw_dir", paths.RawDir),
		slog.String("processed_dir", paths.ProcessedDir))

	inputs := make([]string, len(datasets))
	for i, f := range datasets {
		inputs[i] = f.Path
	}

	runner := pipeline.NewRunner(cfg, paths, logger)
	reports := runner.RunBatch(ctx, inputs)

	failed := 0
	for _, report := range reports {
		if report.Failed() {
			failed++
		}
	}
	if failed == len(reports) {
		logger.ErrorContext(ctx, "every dataset failed")
		return 1
	}
	return 0
}
