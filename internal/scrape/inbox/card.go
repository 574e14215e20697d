package inbox

import (
	"bufio"
	"strings"

	"leadgen-engine/internal/domain"
	"leadgen-engine/internal/scrape/util"
)

// ParseCards reads "Key: value" lead cards from a message body. A "Company"
// line starts a new card; lines before the first one are ignored.
func ParseCards(body string) []domain.RawLead {
	var (
		out []domain.RawLead
		cur *domain.RawLead
	)
	flush := func() {
		if cur != nil && cur.CompanyName != "" {
			out = append(out, *cur)
		}
		cur = nil
	}

	sc := bufio.NewScanner(strings.NewReader(body))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		key, val, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			continue
		}
		key = strings.ToLower(util.CleanText(key))
		val = util.CleanText(val)
		if val == "" {
			continue
		}

		if key == "company" || key == "company name" {
			flush()
			cur = &domain.RawLead{CompanyName: val}
			continue
		}
		if cur == nil {
			continue
		}

		switch key {
		case "website", "url", "site":
			cur.Website = val
		case "industry":
			cur.Industry = val
		case "location", "address":
			cur.Location = val
		case "employees", "employee count", "size":
			if n, ok := util.ParseCount(val); ok {
				cur.EmployeeCount = &n
			}
		case "email", "contact email":
			cur.ContactEmail = val
		case "phone", "contact phone":
			cur.ContactPhone = val
		}
	}
	flush()
	return out
}
