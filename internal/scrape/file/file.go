package file

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"leadgen-engine/internal/config"
	"leadgen-engine/internal/domain"
)

// Source reads raw leads from a JSON or YAML file on disk. Lines starting
// with '#' are treated as header comments in either format.
type Source struct {
	src  config.Source
	path string
}

// New resolves a relative path against dataDir.
func New(src config.Source, dataDir string) *Source {
	p := src.Path
	if !filepath.IsAbs(p) && dataDir != "" {
		p = filepath.Join(dataDir, p)
	}
	return &Source{src: src, path: p}
}

func (s *Source) Name() string { return s.src.Name }

func (s *Source) Fetch(ctx context.Context) ([]domain.RawLead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	leads, err := Decode(b, strings.ToLower(filepath.Ext(s.path)))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	for i := range leads {
		leads[i].Source = s.src.Name
	}
	return leads, nil
}

// Decode parses a list of raw leads. ext selects YAML for ".yml"/".yaml",
// JSON otherwise. A single object is accepted as a one-element list.
func Decode(b []byte, ext string) ([]domain.RawLead, error) {
	b = stripComments(b)
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, nil
	}

	var leads []domain.RawLead
	if ext == ".yml" || ext == ".yaml" {
		if err := yaml.Unmarshal(b, &leads); err == nil {
			return leads, nil
		}
		var one domain.RawLead
		if err := yaml.Unmarshal(b, &one); err != nil {
			return nil, err
		}
		return []domain.RawLead{one}, nil
	}

	trimmed := bytes.TrimSpace(b)
	if trimmed[0] == '{' {
		var one domain.RawLead
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return nil, err
		}
		return []domain.RawLead{one}, nil
	}
	if err := json.Unmarshal(trimmed, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

func stripComments(b []byte) []byte {
	var out bytes.Buffer
	sc := bufio.NewScanner(bytes.NewReader(b))
	sc.Buffer(make([]byte, 0, 64*1024), 16<<20)
	for sc.Scan() {
		line := sc.Bytes()
		if bytes.HasPrefix(bytes.TrimSpace(line), []byte("#")) {
			continue
		}
		out.Write(line)
		out.WriteByte('\n')
	}
	return out.Bytes()
}
