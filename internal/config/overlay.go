// config/overlay.go
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type SourcesOverlay struct {
	Sources []Source `yaml:"sources"`
}

// OverlaySources replaces cfg.Sources with the list in sourcesPath when that
// file exists and is non-empty. Entries are matched by name; new names are appended.
func OverlaySources(cfg *Config, sourcesPath string) error {
	b, err := os.ReadFile(sourcesPath)
	if err != nil {
		// Missing sources file should not kill startup
		return nil
	}

	var sf SourcesOverlay
	if err := yaml.Unmarshal(b, &sf); err != nil {
		return err
	}

	for _, s := range sf.Sources {
		replaced := false
		for i := range cfg.Sources {
			if cfg.Sources[i].Name == s.Name {
				cfg.Sources[i] = s
				replaced = true
				break
			}
		}
		if !replaced {
			cfg.Sources = append(cfg.Sources, s)
		}
	}
	return nil
}
