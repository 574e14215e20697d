package config

import (
	"errors"
	"os"
	"path/filepath"
)

// Files the engine keeps in its data dir.
const (
	ConfigFile  = "config.yml"
	SourcesFile = "sources.yml"
	DBFile      = "leads.db"
	LockFile    = "scoring.lock"
)

// Layout resolves the engine's files inside one data dir.
type Layout struct {
	Dir string
}

func (l Layout) Config() string  { return filepath.Join(l.Dir, ConfigFile) }
func (l Layout) Sources() string { return filepath.Join(l.Dir, SourcesFile) }
func (l Layout) DB() string      { return filepath.Join(l.Dir, DBFile) }

// ScoringLock is the file the scoring job locks. A relative
// scoring.lock_file is taken from the data dir.
func (l Layout) ScoringLock(cfg Config) string {
	p := cfg.Scoring.LockFile
	if p == "" {
		p = LockFile
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(l.Dir, p)
}

// SourceDir is where file sources resolve relative paths: app.data_dir
// when set, else the data dir.
func (l Layout) SourceDir(cfg Config) string {
	if cfg.App.DataDir != "" {
		return cfg.App.DataDir
	}
	return l.Dir
}

// EnsureUserConfig returns the path of config.yml inside dataDir. When none
// exists the shipped default is written there first and created is true.
func EnsureUserConfig(dataDir string) (path string, created bool, err error) {
	path = Layout{Dir: dataDir}.Config()

	_, err = os.Stat(path)
	if err == nil {
		return path, false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", false, err
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", false, err
	}
	if err := os.WriteFile(path, defaultYAML, 0o644); err != nil {
		return "", false, err
	}
	return path, true, nil
}
