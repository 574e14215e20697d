package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	_, vr := NormalizeAndValidate(cfg)
	if !vr.OK() {
		t.Fatalf("default config invalid: %v", vr.Errors)
	}
	if cfg.Analytics.TrendDays != 30 || cfg.Analytics.BreakdownLimit != 10 {
		t.Fatalf("analytics defaults = %+v", cfg.Analytics)
	}
	if len(cfg.EnabledSources()) != 0 {
		t.Fatalf("expected every shipped source disabled, got %d enabled", len(cfg.EnabledSources()))
	}
}

func TestEnsureUserConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	path, created, err := EnsureUserConfig(dir)
	if err != nil {
		t.Fatalf("EnsureUserConfig: %v", err)
	}
	if !created || path != filepath.Join(dir, ConfigFile) {
		t.Fatalf("path = %s created = %v", path, created)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != string(defaultYAML) {
		t.Fatal("bootstrap did not write the shipped default")
	}

	// an existing file is left alone
	if err := os.WriteFile(path, []byte("app:\n  port: 9000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, created, err = EnsureUserConfig(dir); err != nil || created {
		t.Fatalf("EnsureUserConfig second call: created=%v err=%v", created, err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Port != 9000 {
		t.Fatalf("port = %d, want 9000", cfg.App.Port)
	}
}

func TestLayout(t *testing.T) {
	t.Parallel()

	l := Layout{Dir: filepath.Join("var", "leadgen")}
	abs := filepath.Join(t.TempDir(), "run.lock")

	tests := []struct {
		name      string
		cfg       func(*Config)
		wantLock  string
		wantFiles string
	}{
		{"defaults", func(*Config) {}, filepath.Join(l.Dir, LockFile), l.Dir},
		{"relative lock", func(c *Config) { c.Scoring.LockFile = "locks/score.lock" }, filepath.Join(l.Dir, "locks", "score.lock"), l.Dir},
		{"absolute lock", func(c *Config) { c.Scoring.LockFile = abs }, abs, l.Dir},
		{"app data dir for file sources", func(c *Config) { c.App.DataDir = "/srv/leads" }, filepath.Join(l.Dir, LockFile), "/srv/leads"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			tt.cfg(&cfg)
			if got := l.ScoringLock(cfg); got != tt.wantLock {
				t.Errorf("ScoringLock = %s, want %s", got, tt.wantLock)
			}
			if got := l.SourceDir(cfg); got != tt.wantFiles {
				t.Errorf("SourceDir = %s, want %s", got, tt.wantFiles)
			}
		})
	}

	if l.DB() != filepath.Join(l.Dir, DBFile) || l.Sources() != filepath.Join(l.Dir, SourcesFile) {
		t.Errorf("db = %s sources = %s", l.DB(), l.Sources())
	}
}

func TestNormalizeAndValidate(t *testing.T) {
	base := func() Config {
		cfg, err := Default()
		if err != nil {
			t.Fatal(err)
		}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.App.Port = 0 },
			wantErr: "Port",
		},
		{
			name: "unknown source type",
			mutate: func(c *Config) {
				c.Sources = append(c.Sources, Source{Name: "x", Type: "ftp"})
			},
			wantErr: "oneof",
		},
		{
			name: "duplicate source name",
			mutate: func(c *Config) {
				c.Sources = append(c.Sources, Source{Name: "seed", Type: SourceFile, Path: "a.json"})
			},
			wantErr: "duplicated",
		},
		{
			name: "enabled directory without selectors",
			mutate: func(c *Config) {
				c.Sources = []Source{{Name: "d", Type: SourceDirectory, Enabled: true, URL: "https://example.com"}}
			},
			wantErr: "selectors",
		},
		{
			name: "employee band inverted",
			mutate: func(c *Config) {
				c.Sources = []Source{{Name: "d", Type: SourceFile, Path: "x", MinEmployees: 10, MaxEmployees: 5}}
			},
			wantErr: "min_employees",
		},
		{
			name: "enabled inbox without host",
			mutate: func(c *Config) {
				c.Sources = []Source{{Name: "i", Type: SourceInbox, Enabled: true, IMAP: IMAP{Username: "u"}}}
			},
			wantErr: "imap.host",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			_, vr := NormalizeAndValidate(cfg)
			if vr.OK() {
				t.Fatalf("expected validation errors")
			}
			if !strings.Contains(strings.Join(vr.Errors, "\n"), tt.wantErr) {
				t.Fatalf("errors %v do not mention %q", vr.Errors, tt.wantErr)
			}
		})
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	cfg := Config{}
	cfg.App.Port = 1
	cfg.Sources = []Source{{Name: "  seed  ", Type: " FILE ", Path: "x.json"}}

	out, vr := NormalizeAndValidate(cfg)
	if !vr.OK() {
		t.Fatalf("unexpected errors: %v", vr.Errors)
	}
	if out.Sources[0].Name != "seed" || out.Sources[0].Type != SourceFile {
		t.Fatalf("not normalized: %+v", out.Sources[0])
	}
	if cfg.Sources[0].Name != "  seed  " {
		t.Fatal("input config was mutated")
	}
}

func TestOverlaySources(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "sources.yml")
	overlay := `
sources:
  - name: seed
    type: file
    enabled: true
    path: other.json
  - name: extra
    type: file
    enabled: true
    path: extra.yml
`
	if err := os.WriteFile(path, []byte(overlay), 0o644); err != nil {
		t.Fatal(err)
	}

	n := len(cfg.Sources)
	if err := OverlaySources(&cfg, path); err != nil {
		t.Fatalf("OverlaySources: %v", err)
	}
	if len(cfg.Sources) != n+1 {
		t.Fatalf("sources = %d, want %d", len(cfg.Sources), n+1)
	}
	enabled := cfg.EnabledSources()
	if len(enabled) != 2 || enabled[0].Path != "other.json" || enabled[1].Name != "extra" {
		t.Fatalf("enabled = %+v", enabled)
	}

	if err := OverlaySources(&cfg, filepath.Join(t.TempDir(), "missing.yml")); err != nil {
		t.Fatalf("missing overlay should be ignored, got %v", err)
	}
}

func TestSaveAtomic(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg.App.Port = 4000
	if err := SaveAtomic(path, cfg); err != nil {
		t.Fatalf("SaveAtomic: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.App.Port != 4000 {
		t.Fatalf("port = %d", got.App.Port)
	}
	if b, _ := os.ReadFile(path + ".bak"); string(b) != "old" {
		t.Fatalf("backup = %q", b)
	}

	cfg.App.Port = -1
	if err := SaveAtomic(path, cfg); err == nil {
		t.Fatal("expected invalid config to be refused")
	}
}
