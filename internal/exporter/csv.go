// Package exporter persists processed tables as CSV files under the
// processed-data directory.
package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cropprep/internal/config"
	"cropprep/internal/table"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(paths *config.Paths, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{paths: paths, logger: logger}
}

// ProcessedName maps an input file name to its processed output name.
// The container is always CSV regardless of the input format.
func ProcessedName(inputName string) string {
	base := filepath.Base(inputName)
	ext := filepath.Ext(base)
	return "processed_" + strings.TrimSuffix(base, ext) + ".csv"
}

// WriteProcessed writes a table to the processed directory under the output
// name mirroring the given input file, and returns the full path written.
// The file is written to a temporary sibling first and renamed into place so
// a failed export never leaves a partial dataset behind.
func (w *CSVWriter) WriteProcessed(inputName string, t *table.Table) (string, error) {
	outPath := w.paths.ProcessedFile(ProcessedName(inputName))

	if err := w.WriteTable(outPath, t); err != nil {
		return "", err
	}

	w.logger.Info("processed dataset written",
		slog.String("path", outPath),
		slog.Int("rows", t.Rows()),
		slog.Int("cols", t.Cols()))
	return outPath, nil
}

// WriteTable writes a table as CSV to the given path, header row first.
// A UTF-8 BOM is prepended so spreadsheet tools pick up the encoding.
func (w *CSVWriter) WriteTable(path string, t *table.Table) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeCSV(tmp, t); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}

// writeCSV streams BOM, header, and rows to an open file
func writeCSV(file *os.File, t *table.Table) error {
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(file)

	if err := writer.Write(t.Names()); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i := 0; i < t.Rows(); i++ {
		if err := writer.Write(t.Row(i)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
