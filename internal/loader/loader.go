// Package loader reads raw CSV and Excel datasets into tables and assigns a
// kind to every column immediately after load.
package loader

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	xerrors "cropprep/internal/errors"
	"cropprep/internal/table"
)

// missingMarkers are raw cell values normalized to a missing cell at load time
var missingMarkers = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
}

// Loader reads tabular files into tables
type Loader struct {
	logger *slog.Logger
}

// New creates a Loader. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load reads a CSV or Excel file based on its extension and returns the table
// together with the inferred kind of every column. Date columns are
// canonicalized and numeric columns coerced; cells that fail conversion
// become missing rather than aborting the load.
func (l *Loader) Load(path string) (*table.Table, map[string]table.Kind, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var (
		t   *table.Table
		err error
	)
	switch ext {
	case ".csv":
		t, err = l.readCSV(path)
	case ".xlsx", ".xls":
		t, err = l.readExcel(path)
	default:
		return nil, nil, xerrors.NewFormatError(path, ext)
	}
	if err != nil {
		return nil, nil, err
	}

	kinds := l.inferKinds(t)
	l.coerce(t, kinds)

	dist := map[string]int{}
	for _, kind := range kinds {
		dist[kind.String()]++
	}
	l.logger.Info("dataset loaded",
		slog.String("path", path),
		slog.Int("rows", t.Rows()),
		slog.Int("cols", t.Cols()),
		slog.Int("missing_cells", t.MissingTotal()),
		slog.Any("kind_distribution", dist))

	return t, kinds, nil
}

// readCSV reads a CSV file; the first record is the header row
func (l *Loader) readCSV(path string) (*table.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // ragged rows are padded by AppendRow

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("file %s has no header row", path)
	}

	return l.buildTable(stripBOM(records[0]), records[1:])
}

// readExcel reads the first sheet of an Excel workbook; the first row is the
// header row.
func (l *Loader) readExcel(path string) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("file %s has no header row", path)
	}

	return l.buildTable(rows[0], rows[1:])
}

// buildTable assembles a table from header and data rows, normalizing
// missing-value markers. Rows wider than the header are truncated to the
// column count; the dropped cells are logged at debug level.
func (l *Loader) buildTable(header []string, rows [][]string) (*table.Table, error) {
	t, err := table.New(header)
	if err != nil {
		return nil, err
	}

	for n, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = normalizeCell(cell)
		}
		if len(cells) > t.Cols() {
			l.logger.Debug("row truncated to header width",
				slog.Int("row", n+1),
				slog.Int("cells", len(cells)),
				slog.Int("cols", t.Cols()))
			cells = cells[:t.Cols()]
		}
		if err := t.AppendRow(cells); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// normalizeCell trims a raw cell and maps missing-value markers to ""
func normalizeCell(cell string) string {
	cell = strings.TrimSpace(cell)
	if missingMarkers[strings.ToLower(cell)] {
		return ""
	}
	return cell
}

// stripBOM removes a UTF-8 byte order mark from the first header cell
func stripBOM(header []string) []string {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return header
}

// inferKinds classifies every column of the table
func (l *Loader) inferKinds(t *table.Table) map[string]table.Kind {
	kinds := make(map[string]table.Kind, t.Cols())
	for _, name := range t.Names() {
		col, _ := t.Column(name)
		kinds[name] = table.InferKind(name, col)
	}
	return kinds
}

// coerce rewrites cells into their canonical form for the inferred kind.
// Unconvertible cells become missing; the parse failure is logged at debug
// level and never fails the load.
func (l *Loader) coerce(t *table.Table, kinds map[string]table.Kind) {
	for _, name := range t.Names() {
		col, _ := t.Column(name)
		switch kinds[name] {
		case table.Numeric:
			for i, cell := range col {
				if table.IsMissing(cell) {
					continue
				}
				v, err := table.ParseNumber(cell)
				if err != nil {
					perr := &xerrors.ParseError{Column: name, Value: cell, Want: "number"}
					l.logger.Debug("cell coerced to missing", slog.String("error", perr.Error()))
					col[i] = ""
					continue
				}
				col[i] = table.FormatNumber(v)
			}
		case table.Date:
			for i, cell := range col {
				if table.IsMissing(cell) {
					continue
				}
				ts, err := table.ParseDate(cell)
				if err != nil {
					perr := &xerrors.ParseError{Column: name, Value: cell, Want: "date"}
					l.logger.Debug("cell coerced to missing", slog.String("error", perr.Error()))
					col[i] = ""
					continue
				}
				col[i] = ts.Format(table.DateLayout)
			}
		}
	}
}
