package ingest

import (
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/nyaruka/phonenumbers"

	"leadgen-engine/internal/domain"
)

// Phone numbers without a country prefix are read as US numbers.
const defaultRegion = "US"

var strict = bluemonday.StrictPolicy()

// Normalize collapses the field-name variants of a raw record into one Lead.
// It returns domain.ErrEmptyCompanyName when the identity key is blank.
// The company name is the dedup key and is only trimmed; descriptive fields
// are cleaned of markup.
func Normalize(raw domain.RawLead, now time.Time, newID func() string) (domain.Lead, error) {
	name := strings.TrimSpace(firstNonEmpty(raw.CompanyName, raw.CompanyNameSnake))
	if name == "" {
		return domain.Lead{}, domain.ErrEmptyCompanyName
	}

	email, phone := raw.ContactEmail, raw.ContactPhone
	if raw.ContactInfo != nil {
		email = firstNonEmpty(email, raw.ContactInfo.Email)
		phone = firstNonEmpty(phone, raw.ContactInfo.Phone)
	}

	scraped := now
	if raw.ScrapedAt != nil && !raw.ScrapedAt.IsZero() {
		scraped = *raw.ScrapedAt
	} else if raw.ScrapedAtSnake != nil && !raw.ScrapedAtSnake.IsZero() {
		scraped = *raw.ScrapedAtSnake
	}

	employees := raw.EmployeeCount
	if employees == nil {
		employees = raw.EmployeeCountSnake
	}
	if employees != nil {
		n := *employees
		employees = &n
	}

	return domain.Lead{
		ID:            newID(),
		CompanyName:   name,
		Website:       CleanText(raw.Website),
		Industry:      CleanText(raw.Industry),
		Location:      CleanText(raw.Location),
		EmployeeCount: employees,
		ContactEmail:  strings.ToLower(CleanText(email)),
		ContactPhone:  NormalizePhone(phone),
		Source:        raw.Source,
		ScrapedAt:     scraped.UTC(),
	}, nil
}

// CleanText strips markup, decodes entities and collapses whitespace.
func CleanText(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	s = html.UnescapeString(strict.Sanitize(s))
	return strings.Join(strings.Fields(s), " ")
}

// NormalizePhone returns E.164 for numbers that parse as valid, the cleaned
// input otherwise.
func NormalizePhone(s string) string {
	s = CleanText(s)
	if s == "" {
		return ""
	}
	num, err := phonenumbers.Parse(s, defaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return s
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
