package domain

import (
	"errors"
	"time"
)

// ErrEmptyCompanyName marks a record whose identity key is blank after trimming.
var ErrEmptyCompanyName = errors.New("company name is empty")

// Lead is the canonical record the engine stores, scores and aggregates.
// Empty strings mean the attribute is absent.
type Lead struct {
	ID            string     `json:"id"`
	CompanyName   string     `json:"companyName"`
	Website       string     `json:"website,omitempty"`
	Industry      string     `json:"industry,omitempty"`
	Location      string     `json:"location,omitempty"`
	EmployeeCount *int       `json:"employeeCount,omitempty"`
	ContactEmail  string     `json:"contactEmail,omitempty"`
	ContactPhone  string     `json:"contactPhone,omitempty"`
	Source        string     `json:"source,omitempty"`
	ScrapedAt     time.Time  `json:"scrapedAt"`
	Score         *int       `json:"score"`
	ScoredAt      *time.Time `json:"scoredAt"`
}

func (l Lead) IsScored() bool { return l.Score != nil }

// ScoreValue returns the score and whether one is set.
func (l Lead) ScoreValue() (int, bool) {
	if l.Score == nil {
		return 0, false
	}
	return *l.Score, true
}
