package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"leadgen-engine/internal/config"
)

const page = `<html><body>
<div class="company-card">
  <h2 class="company-name">Acme  Staffing</h2>
  <a class="company-website" href="https://acme.com/?utm_source=dir">site</a>
  <span class="company-industry">Staffing</span>
  <span class="company-location">Austin, TX</span>
  <span class="company-size">12 employees</span>
</div>
<div class="company-card">
  <h2 class="company-name">Too Big Inc</h2>
  <span class="company-size">500 employees</span>
</div>
<div class="company-card">
  <h2 class="company-name">Unknown Size LLC</h2>
</div>
<div class="company-card">
  <h2 class="company-name">Relative Co</h2>
  <a class="company-website" href="/c/relative">site</a>
  <span class="company-size">3</span>
</div>
<div class="company-card"><span class="company-size">4</span></div>
</body></html>`

func source(url string) config.Source {
	return config.Source{
		Name:         "dir",
		Type:         config.SourceDirectory,
		URL:          url,
		Industry:     "Recruitment",
		MinEmployees: 1,
		MaxEmployees: 20,
		Selectors: config.Selectors{
			Card:     ".company-card",
			Name:     ".company-name",
			Website:  ".company-website",
			Industry: ".company-industry",
			Location: ".company-location",
			Size:     ".company-size",
		},
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("missing user agent")
		}
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	got, err := New(source(srv.URL+"/list"), srv.Client(), nil).Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("leads = %+v", got)
	}

	acme := got[0]
	if acme.CompanyName != "Acme Staffing" || acme.Website != "https://acme.com/" || acme.Industry != "Staffing" {
		t.Errorf("acme = %+v", acme)
	}
	if acme.EmployeeCount == nil || *acme.EmployeeCount != 12 || acme.Source != "dir" {
		t.Errorf("acme = %+v", acme)
	}

	rel := got[1]
	if rel.Website != srv.URL+"/c/relative" || rel.Industry != "Recruitment" {
		t.Errorf("relative = %+v", rel)
	}
}

func TestFetchWithoutBandKeepsUnknownSizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	src := source(srv.URL)
	src.MinEmployees, src.MaxEmployees = 0, 0
	got, err := New(src, srv.Client(), nil).Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 {
		t.Fatalf("leads = %d, want 4", len(got))
	}
}

func TestFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := New(source(srv.URL), srv.Client(), nil).Fetch(context.Background()); err == nil {
		t.Fatal("expected error on 502")
	}
}
