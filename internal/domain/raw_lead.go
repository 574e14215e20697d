package domain

import "time"

// RawLead is what a source adapter emits. Sources disagree on field names
// (camelCase vs snake_case, nested contact info), so both spellings are
// accepted here and collapsed into a Lead by the ingestion boundary.
type RawLead struct {
	CompanyName      string `json:"companyName,omitempty" yaml:"companyName,omitempty"`
	CompanyNameSnake string `json:"company_name,omitempty" yaml:"company_name,omitempty"`

	Website  string `json:"website,omitempty" yaml:"website,omitempty"`
	Industry string `json:"industry,omitempty" yaml:"industry,omitempty"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`

	EmployeeCount      *int `json:"employeeCount,omitempty" yaml:"employeeCount,omitempty"`
	EmployeeCountSnake *int `json:"employee_count,omitempty" yaml:"employee_count,omitempty"`

	ContactEmail string       `json:"contactEmail,omitempty" yaml:"contactEmail,omitempty"`
	ContactPhone string       `json:"contactPhone,omitempty" yaml:"contactPhone,omitempty"`
	ContactInfo  *ContactInfo `json:"contact_info,omitempty" yaml:"contact_info,omitempty"`

	ScrapedAt      *time.Time `json:"scrapedAt,omitempty" yaml:"scrapedAt,omitempty"`
	ScrapedAtSnake *time.Time `json:"scraped_at,omitempty" yaml:"scraped_at,omitempty"`

	// Source is filled by the adapter, not by the payload.
	Source string `json:"-" yaml:"-"`
}

type ContactInfo struct {
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
	Phone string `json:"phone,omitempty" yaml:"phone,omitempty"`
}
