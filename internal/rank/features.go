package rank

import (
	"slices"
	"strings"
	"unicode/utf8"

	"leadgen-engine/internal/domain"
)

// Features holds the sub-scores extracted from one lead.
type Features struct {
	CompanyNameLength  int `json:"companyNameLength"`
	WebsiteExists      int `json:"websiteExists"`
	IndustryScore      int `json:"industryScore"`
	LocationScore      int `json:"locationScore"`
	EmployeeCountScore int `json:"employeeCountScore"`
	ContactInfoScore   int `json:"contactInfoScore"`
	DomainQuality      int `json:"domainQuality"`
}

const defaultIndustryScore = 5

var industryScores = map[string]int{
	"Recruitment": 10,
	"Staffing":    9,
	"HR Services": 8,
	"Consulting":  7,
}

var preferredStates = []string{"CA", "NY", "TX", "FL", "IL", "PA", "OH", "GA", "NC", "MI"}

var reputableTLDs = []string{".com", ".org", ".net", ".io"}

// Extract computes every feature. Missing optional fields take the
// lowest-information value, never an error.
func Extract(l domain.Lead) Features {
	return Features{
		CompanyNameLength:  CompanyNameLength(l),
		WebsiteExists:      WebsiteExists(l),
		IndustryScore:      IndustryScore(l),
		LocationScore:      LocationScore(l),
		EmployeeCountScore: EmployeeCountScore(l),
		ContactInfoScore:   ContactInfoScore(l),
		DomainQuality:      DomainQuality(l),
	}
}

func CompanyNameLength(l domain.Lead) int {
	return utf8.RuneCountInString(strings.TrimSpace(l.CompanyName))
}

func WebsiteExists(l domain.Lead) int {
	if present(l.Website) {
		return 1
	}
	return 0
}

// IndustryScore is an exact, case-sensitive table lookup.
func IndustryScore(l domain.Lead) int {
	if v, ok := industryScores[strings.TrimSpace(l.Industry)]; ok {
		return v
	}
	return defaultIndustryScore
}

func LocationScore(l domain.Lead) int {
	if slices.Contains(preferredStates, StateOf(l.Location)) {
		return 10
	}
	return 5
}

// StateOf returns the trailing comma-delimited token of location, uppercased.
func StateOf(location string) string {
	i := strings.LastIndex(location, ",")
	return strings.ToUpper(strings.TrimSpace(location[i+1:]))
}

func EmployeeCountScore(l domain.Lead) int {
	if l.EmployeeCount == nil {
		return 5
	}
	switch n := *l.EmployeeCount; {
	case n >= 1 && n <= 5:
		return 5
	case n >= 6 && n <= 10:
		return 8
	case n >= 11 && n <= 20:
		return 10
	default:
		return 5
	}
}

func ContactInfoScore(l domain.Lead) int {
	email, phone := present(l.ContactEmail), present(l.ContactPhone)
	score := 2
	if email {
		score += 7
	}
	if phone {
		score += 5
	}
	if email && phone {
		score += 3
	}
	return score
}

func DomainQuality(l domain.Lead) int {
	if !present(l.Website) {
		return 3
	}
	host := HostOf(l.Website)
	for _, tld := range reputableTLDs {
		if strings.HasSuffix(host, tld) {
			return 8
		}
	}
	return 5
}

// HostOf drops any scheme and path: "https://acme.com/about" -> "acme.com".
func HostOf(website string) string {
	s := strings.TrimSpace(website)
	if i := strings.LastIndex(s, "//"); i >= 0 {
		s = s[i+2:]
	}
	if i := strings.Index(s, "/"); i >= 0 {
		s = s[:i]
	}
	return s
}

func present(s string) bool { return strings.TrimSpace(s) != "" }
