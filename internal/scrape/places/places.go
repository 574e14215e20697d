package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"leadgen-engine/internal/config"
	"leadgen-engine/internal/domain"
	"leadgen-engine/internal/scrape/util"
)

// KeyFunc returns the API key for the text-search endpoint.
type KeyFunc func() (string, error)

// Scraper queries a places text-search endpoint and keeps operating
// businesses that have at least one rating.
type Scraper struct {
	src config.Source
	hc  *http.Client
	lim *util.HostLimiter
	key KeyFunc
}

func New(src config.Source, hc *http.Client, lim *util.HostLimiter, key KeyFunc) *Scraper {
	if hc == nil {
		hc = &http.Client{Timeout: 20 * time.Second}
	}
	return &Scraper{src: src, hc: hc, lim: lim, key: key}
}

func (s *Scraper) Name() string { return s.src.Name }

type response struct {
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message"`
	Results      []place `json:"results"`
}

type place struct {
	Name                 string `json:"name"`
	Website              string `json:"website"`
	FormattedAddress     string `json:"formatted_address"`
	FormattedPhoneNumber string `json:"formatted_phone_number"`
	BusinessStatus       string `json:"business_status"`
	UserRatingsTotal     int    `json:"user_ratings_total"`
}

func (s *Scraper) Fetch(ctx context.Context) ([]domain.RawLead, error) {
	u, err := url.Parse(s.src.URL)
	if err != nil {
		return nil, fmt.Errorf("places url: %w", err)
	}
	if s.key != nil {
		key, err := s.key()
		if err != nil {
			return nil, fmt.Errorf("places api key: %w", err)
		}
		q := u.Query()
		q.Set("key", key)
		u.RawQuery = q.Encode()
	}

	if err := s.lim.WaitURL(ctx, u.String()); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("places request: %w", err)
	}
	req.Header.Set("User-Agent", util.UserAgent)
	req.Header.Set("Accept", "application/json")

	res, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("places status %d", res.StatusCode)
	}

	var body response
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("places decode: %w", err)
	}
	switch body.Status {
	case "", "OK", "ZERO_RESULTS":
	default:
		return nil, fmt.Errorf("places api %s: %s", body.Status, body.ErrorMessage)
	}

	var out []domain.RawLead
	for _, p := range body.Results {
		if p.BusinessStatus != "OPERATIONAL" || p.UserRatingsTotal <= 0 {
			continue
		}
		out = append(out, domain.RawLead{
			CompanyName:  p.Name,
			Website:      p.Website,
			Industry:     s.src.Industry,
			Location:     p.FormattedAddress,
			ContactPhone: p.FormattedPhoneNumber,
			Source:       s.src.Name,
		})
	}
	return out, nil
}
