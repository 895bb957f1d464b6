package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFiles(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	return dir
}

func TestFindTabularFiles(t *testing.T) {
	dir := setupFiles(t,
		"yield.csv", "temp.xlsx", "rainfall.XLS", "pesticides.csv",
		"notes.txt", "readme.md", ".hidden.json",
	)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.csv.d"), 0755))

	found, err := NewDiscovery(dir).FindTabularFiles(".")
	require.NoError(t, err)

	names := make([]string, len(found))
	for i, f := range found {
		names[i] = f.Name
	}
	// Sorted by name; extension match is case-insensitive; non-tabular
	// files and directories are skipped.
	assert.Equal(t, []string{"pesticides.csv", "rainfall.XLS", "temp.xlsx", "yield.csv"}, names)

	for _, f := range found {
		assert.Equal(t, filepath.Join(dir, f.Name), f.Path)
		assert.Positive(t, f.Size)
	}
}

func TestFindTabularFiles_AbsoluteDir(t *testing.T) {
	dir := setupFiles(t, "a.csv")

	found, err := NewDiscovery("/elsewhere").FindTabularFiles(dir)
	require.NoError(t, err)
	require.Len(t, found, 1)
}

func TestFindTabularFiles_MissingDirectory(t *testing.T) {
	_, err := NewDiscovery(t.TempDir()).FindTabularFiles("absent")
	assert.Error(t, err)
}

func TestFindFilesByPattern(t *testing.T) {
	dir := setupFiles(t, "processed_yield.csv", "processed_temp.csv", "raw_temp.csv")

	found, err := NewDiscovery(dir).FindFilesByPattern(".", "processed_*.csv")
	require.NoError(t, err)
	assert.Len(t, found, 2)
}
