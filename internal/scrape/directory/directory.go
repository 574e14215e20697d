package directory

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"leadgen-engine/internal/config"
	"leadgen-engine/internal/domain"
	"leadgen-engine/internal/scrape/util"
)

// Scraper reads company cards from one HTML directory page.
type Scraper struct {
	src config.Source
	hc  *http.Client
	lim *util.HostLimiter
}

func New(src config.Source, hc *http.Client, lim *util.HostLimiter) *Scraper {
	if hc == nil {
		hc = &http.Client{Timeout: 20 * time.Second}
	}
	return &Scraper{src: src, hc: hc, lim: lim}
}

func (s *Scraper) Name() string { return s.src.Name }

func (s *Scraper) Fetch(ctx context.Context) ([]domain.RawLead, error) {
	if err := s.lim.WaitURL(ctx, s.src.URL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("directory request: %w", err)
	}
	req.Header.Set("User-Agent", util.UserAgent)

	res, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("directory status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("directory parse html: %w", err)
	}
	return Parse(doc, s.src), nil
}

// Parse extracts one raw lead per card. Cards without a name are skipped.
// When an employee band is configured, cards whose size is unknown or
// outside the band are skipped too.
func Parse(doc *goquery.Document, src config.Source) []domain.RawLead {
	sel := src.Selectors
	banded := src.MinEmployees > 0 || src.MaxEmployees > 0

	var out []domain.RawLead
	doc.Find(sel.Card).Each(func(_ int, card *goquery.Selection) {
		name := text(card, sel.Name)
		if name == "" {
			return
		}

		var employees *int
		if n, ok := util.ParseCount(text(card, sel.Size)); ok {
			employees = &n
		}
		if banded && (employees == nil || !util.InBand(*employees, src.MinEmployees, src.MaxEmployees)) {
			return
		}

		website := ""
		if sel.Website != "" {
			w := card.Find(sel.Website).First()
			href, ok := w.Attr("href")
			if !ok {
				href = w.Text()
			}
			website = util.CanonicalURL(src.URL, href)
		}

		industry := text(card, sel.Industry)
		if industry == "" {
			industry = src.Industry
		}

		out = append(out, domain.RawLead{
			CompanyName:   name,
			Website:       website,
			Industry:      industry,
			Location:      text(card, sel.Location),
			EmployeeCount: employees,
			Source:        src.Name,
		})
	})
	return out
}

func text(card *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return util.CleanText(card.Find(selector).First().Text())
}
