package types

import (
	"context"

	"leadgen-engine/internal/domain"
)

type ScrapeStatus struct {
	LastRunAt     string   `json:"last_run_at"`
	LastOkAt      string   `json:"last_ok_at"`
	LastError     string   `json:"last_error"`
	LastAdmitted  int      `json:"last_admitted"`
	LastScored    int      `json:"last_scored"`
	FailedSources []string `json:"failed_sources"`
	Running       bool     `json:"running"`
}

// Fetcher is one source adapter. Fetch returns the raw records the source
// currently lists; an error means the source contributed nothing.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.RawLead, error)
}
