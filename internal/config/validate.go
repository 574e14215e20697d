package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy plus the problems found.
// Struct-level rules come from Validate; the cross-field checks live here.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Sources = make([]Source, len(cfg.Sources))
	copy(out.Sources, cfg.Sources)
	for i := range out.Sources {
		s := &out.Sources[i]
		s.Name = strings.TrimSpace(s.Name)
		s.Type = strings.ToLower(strings.TrimSpace(s.Type))
		s.URL = strings.TrimSpace(s.URL)
		s.Path = strings.TrimSpace(s.Path)
		s.Industry = strings.TrimSpace(s.Industry)
		s.IMAP.SubjectAny = trimList(s.IMAP.SubjectAny)
	}

	for _, e := range structErrors(out) {
		res.addErr("%s", e)
	}

	// ---- cross-field rules ----

	names := map[string]bool{}
	for i, s := range out.Sources {
		if s.Name != "" && names[s.Name] {
			res.addErr("sources[%d].name %q is duplicated", i, s.Name)
		}
		names[s.Name] = true

		if s.MaxEmployees > 0 && s.MinEmployees > s.MaxEmployees {
			res.addErr("sources[%d]: min_employees (%d) > max_employees (%d)", i, s.MinEmployees, s.MaxEmployees)
		}
		if !s.Enabled {
			continue
		}
		switch s.Type {
		case SourceDirectory:
			if s.URL == "" {
				res.addErr("sources[%d].url is required for directory sources", i)
			}
			if s.Selectors.Card == "" || s.Selectors.Name == "" {
				res.addErr("sources[%d].selectors.card and selectors.name are required for directory sources", i)
			}
		case SourcePlaces:
			if s.URL == "" {
				res.addErr("sources[%d].url is required for places sources", i)
			}
			if s.Industry == "" {
				res.addWarn("sources[%d] (%s): places results carry no industry; they will score with the default industry value", i, s.Name)
			}
		case SourceInbox:
			if s.IMAP.Host == "" {
				res.addErr("sources[%d].imap.host is required when enabled", i)
			}
			if s.IMAP.Username == "" {
				res.addErr("sources[%d].imap.username is required when enabled", i)
			}
			if len(s.IMAP.SubjectAny) == 0 {
				res.addWarn("sources[%d].imap.subject_any is empty; every unseen message will be parsed", i)
			}
		case SourceFile:
			if s.Path == "" {
				res.addErr("sources[%d].path is required for file sources", i)
			}
		}
	}

	if out.Polling.Enabled {
		if out.Polling.IntervalSeconds <= 0 {
			res.addErr("polling.interval_seconds must be > 0 when polling is enabled")
		} else if out.Polling.IntervalSeconds < 60 {
			res.addWarn("polling.interval_seconds is very low (%d) and may get sources rate limited.", out.Polling.IntervalSeconds)
		}
		if len(out.EnabledSources()) == 0 {
			res.addWarn("polling is enabled but no source is enabled")
		}
	}

	if out.Analytics.TrendDays > 366 {
		res.addWarn("analytics.trend_days is %d; trend rows are kept per day", out.Analytics.TrendDays)
	}

	return out, res
}
