// engine/internal/config/config.go
package config

import (
	_ "embed"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yml
var defaultYAML []byte

// Source types understood by scrape.BuildFetchers.
const (
	SourceDirectory = "directory"
	SourcePlaces    = "places"
	SourceInbox     = "inbox"
	SourceFile      = "file"
)

type Selectors struct {
	Card     string `yaml:"card" json:"card"`
	Name     string `yaml:"name" json:"name"`
	Website  string `yaml:"website" json:"website"`
	Industry string `yaml:"industry" json:"industry"`
	Location string `yaml:"location" json:"location"`
	Size     string `yaml:"size" json:"size"`
}

type IMAP struct {
	Host       string   `yaml:"host" json:"host"`
	Port       int      `yaml:"port" json:"port" validate:"omitempty,min=1,max=65535"`
	Username   string   `yaml:"username" json:"username"`
	Mailbox    string   `yaml:"mailbox" json:"mailbox"`
	SubjectAny []string `yaml:"subject_any" json:"subject_any"`
	MaxEmails  int      `yaml:"max_emails" json:"max_emails" validate:"min=0"`
}

type Source struct {
	Name    string `yaml:"name" json:"name" validate:"required"`
	Type    string `yaml:"type" json:"type" validate:"oneof=directory places inbox file"`
	Enabled bool   `yaml:"enabled" json:"enabled"`

	URL  string `yaml:"url,omitempty" json:"url,omitempty" validate:"omitempty,url"`
	Path string `yaml:"path,omitempty" json:"path,omitempty"`

	// Industry is applied to records that carry none (places results, plain directories).
	Industry     string `yaml:"industry,omitempty" json:"industry,omitempty"`
	MinEmployees int    `yaml:"min_employees,omitempty" json:"min_employees,omitempty" validate:"min=0"`
	MaxEmployees int    `yaml:"max_employees,omitempty" json:"max_employees,omitempty" validate:"min=0"`

	Selectors Selectors `yaml:"selectors,omitempty" json:"selectors,omitempty"`
	IMAP      IMAP      `yaml:"imap,omitempty" json:"imap,omitempty"`

	TimeoutSeconds int `yaml:"timeout_seconds,omitempty" json:"timeout_seconds,omitempty" validate:"min=0"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port" validate:"min=1,max=65535"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Polling struct {
		Enabled              bool    `yaml:"enabled" json:"enabled"`
		IntervalSeconds      int     `yaml:"interval_seconds" json:"interval_seconds" validate:"min=0"`
		SourceTimeoutSeconds int     `yaml:"source_timeout_seconds" json:"source_timeout_seconds" validate:"min=0"`
		RequestsPerSecond    float64 `yaml:"requests_per_second" json:"requests_per_second" validate:"min=0"`
		Burst                int     `yaml:"burst" json:"burst" validate:"min=0"`
	} `yaml:"polling" json:"polling"`

	Sources []Source `yaml:"sources" json:"sources" validate:"dive"`

	Scoring struct {
		// LockFile guards the scoring job across processes. Relative paths resolve against the data dir.
		LockFile string `yaml:"lock_file" json:"lock_file"`
	} `yaml:"scoring" json:"scoring"`

	Analytics struct {
		TrendDays      int `yaml:"trend_days" json:"trend_days" validate:"min=0"`
		BreakdownLimit int `yaml:"breakdown_limit" json:"breakdown_limit" validate:"min=0"`
	} `yaml:"analytics" json:"analytics"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// Default returns the configuration shipped with the engine.
func Default() (Config, error) {
	var cfg Config
	err := yaml.Unmarshal(defaultYAML, &cfg)
	return cfg, err
}

// EnabledSources returns sources with enabled: true, in file order.
func (c Config) EnabledSources() []Source {
	var out []Source
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}
