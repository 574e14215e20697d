package ingest

import (
	"strings"

	"leadgen-engine/internal/domain"
)

type DedupResult struct {
	Admitted []domain.Lead
	Rejected int
	Invalid  int
}

// Dedup admits leads whose company name is non-blank, not in existing and not
// already seen earlier in the batch. Matching is exact and case-sensitive.
// Batch order is preserved; the first occurrence of a name wins.
func Dedup(batch []domain.Lead, existing map[string]struct{}) DedupResult {
	var res DedupResult
	seen := make(map[string]struct{}, len(batch))

	for _, l := range batch {
		key := strings.TrimSpace(l.CompanyName)
		if key == "" {
			res.Invalid++
			continue
		}
		if _, ok := existing[key]; ok {
			res.Rejected++
			continue
		}
		if _, ok := seen[key]; ok {
			res.Rejected++
			continue
		}
		seen[key] = struct{}{}
		res.Admitted = append(res.Admitted, l)
	}
	return res
}

// CompanyNames returns the distinct trimmed names in batch, in order.
func CompanyNames(batch []domain.Lead) []string {
	seen := make(map[string]struct{}, len(batch))
	out := make([]string, 0, len(batch))
	for _, l := range batch {
		key := strings.TrimSpace(l.CompanyName)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
