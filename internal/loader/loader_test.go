package loader

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	xerrors "cropprep/internal/errors"
	"cropprep/internal/table"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_CSV(t *testing.T) {
	path := writeCSV(t, "yield.csv", `Area,Year,hg/ha_yield,harvest_date
Albania,1990,"36,613",1990-07-02
Algeria,1990,NA,02/07/1990
Angola,1991,14486,not-a-date
`)

	tbl, kinds, err := New(nil).Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.Rows())
	assert.Equal(t, []string{"Area", "Year", "hg/ha_yield", "harvest_date"}, tbl.Names())

	assert.Equal(t, table.Categorical, kinds["Area"])
	assert.Equal(t, table.Numeric, kinds["Year"])
	assert.Equal(t, table.Numeric, kinds["hg/ha_yield"], "yield name hint forces numeric")
	assert.Equal(t, table.Date, kinds["harvest_date"])

	// Thousands separator stripped, NA normalized to missing.
	col, _ := tbl.Column("hg/ha_yield")
	assert.Equal(t, []string{"36613", "", "14486"}, col)

	// Dates canonicalized; the unparseable cell became missing, not fatal.
	col, _ = tbl.Column("harvest_date")
	assert.Equal(t, []string{"1990-07-02", "1990-07-02", ""}, col)
}

func TestLoad_CSVRaggedRows(t *testing.T) {
	path := writeCSV(t, "rain.csv", "Area,average_rain_fall_mm_per_year\nAlbania,1485\nAlgeria\n")

	tbl, kinds, err := New(nil).Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.Rows())
	assert.Equal(t, table.Numeric, kinds["average_rain_fall_mm_per_year"])
	assert.Equal(t, 1, tbl.MissingCount("average_rain_fall_mm_per_year"))
}

func TestLoad_CSVOverlongRows(t *testing.T) {
	path := writeCSV(t, "rain.csv", "Area,average_rain_fall_mm_per_year\nAlbania,1485,stray\nAlgeria,89\n")

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tbl, _, err := New(logger).Load(path)
	require.NoError(t, err)

	// The stray cell is dropped, not fatal, and the loss is logged.
	assert.Equal(t, 2, tbl.Rows())
	assert.Equal(t, 2, tbl.Cols())
	assert.Contains(t, buf.String(), "row truncated to header width")
}

func TestLoad_Excel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "temp.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"year", "country", "avg_temp"},
		{1990, "Albania", 16.37},
		{1991, "Albania", 15.36},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	tbl, kinds, err := New(nil).Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.Rows())
	assert.Equal(t, table.Numeric, kinds["avg_temp"], "temp name hint forces numeric")
	assert.Equal(t, table.Categorical, kinds["country"])

	col, _ := tbl.Column("avg_temp")
	assert.Equal(t, []string{"16.37", "15.36"}, col)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeCSV(t, "notes.txt", "not tabular")

	_, _, err := New(nil).Load(path)
	require.Error(t, err)
	assert.True(t, xerrors.IsFormatError(err))

	var fe *xerrors.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ".txt", fe.Ext)
}

func TestLoad_BOMHeader(t *testing.T) {
	path := writeCSV(t, "bom.csv", "\uFEFFArea,Value\nAlbania,1\n")

	tbl, _, err := New(nil).Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Area", "Value"}, tbl.Names())
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := New(nil).Load(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}
