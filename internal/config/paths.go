package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains the resolved application paths.
// This is the single source of truth for ALL file paths in the application.
type Paths struct {
	BaseDir      string
	DataDir      string
	RawDir       string
	ProcessedDir string
	LogsDir      string
}

// GetPaths resolves the configured paths against the executable directory.
// Paths are never resolved against the current working directory, so the
// binary behaves the same wherever it is launched from.
func GetPaths(cfg PathsConfig) (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return PathsFrom(filepath.Dir(exe), cfg), nil
}

// PathsFrom resolves the configured paths against an explicit base directory.
// Absolute entries in cfg are kept as-is.
//
// Directory structure:
//
//	base/
//	  ├── data/
//	  │   ├── raw/         (input CSV/Excel datasets)
//	  │   └── processed/   (cleaned, encoded CSV output)
//	  └── logs/
func PathsFrom(baseDir string, cfg PathsConfig) *Paths {
	resolve := func(dir, parent string) string {
		if filepath.IsAbs(dir) {
			return dir
		}
		return filepath.Join(parent, dir)
	}

	dataDir := resolve(cfg.DataDir, baseDir)
	return &Paths{
		BaseDir:      baseDir,
		DataDir:      dataDir,
		RawDir:       resolve(cfg.RawDir, dataDir),
		ProcessedDir: resolve(cfg.ProcessedDir, dataDir),
		LogsDir:      resolve(cfg.LogsDir, baseDir),
	}
}

// EnsureDirectories creates all required directories if they do not exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.RawDir, p.ProcessedDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ProcessedFile returns the output path for a processed dataset, mirroring
// the input base name.
func (p *Paths) ProcessedFile(name string) string {
	return filepath.Join(p.ProcessedDir, name)
}

// LogFile resolves a log file path against the logs directory
func (p *Paths) LogFile(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(p.LogsDir, filepath.Base(name))
}
