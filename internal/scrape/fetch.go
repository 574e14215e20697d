package scrape

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"leadgen-engine/internal/config"
	"leadgen-engine/internal/domain"
	"leadgen-engine/internal/scrape/directory"
	"leadgen-engine/internal/scrape/file"
	"leadgen-engine/internal/scrape/inbox"
	"leadgen-engine/internal/scrape/places"
	"leadgen-engine/internal/scrape/types"
	"leadgen-engine/internal/scrape/util"
)

const defaultSourceTimeout = 2 * time.Minute

// SourceError is one adapter's failure. The adapter contributes no leads.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string { return fmt.Sprintf("source %s: %v", e.Source, e.Err) }

func (e *SourceError) Unwrap() error { return e.Err }

// Deps are the shared collaborators adapters are built with.
type Deps struct {
	HTTP    *http.Client
	Limiter *util.HostLimiter
	DataDir string
	// Secret returns a source's credential (places API key, IMAP password).
	Secret func(config.Source) (string, error)
}

// BuildFetchers returns one fetcher per enabled source, in config order.
func BuildFetchers(cfg config.Config, deps Deps) ([]types.Fetcher, error) {
	secret := func(src config.Source) func() (string, error) {
		return func() (string, error) {
			if deps.Secret == nil {
				return "", errors.New("no secret store configured")
			}
			return deps.Secret(src)
		}
	}

	var out []types.Fetcher
	for _, src := range cfg.EnabledSources() {
		switch src.Type {
		case config.SourceDirectory:
			out = append(out, directory.New(src, deps.HTTP, deps.Limiter))
		case config.SourcePlaces:
			out = append(out, places.New(src, deps.HTTP, deps.Limiter, secret(src)))
		case config.SourceInbox:
			out = append(out, inbox.New(src, secret(src)))
		case config.SourceFile:
			out = append(out, file.New(src, deps.DataDir))
		default:
			return nil, fmt.Errorf("source %s: unknown type %q", src.Name, src.Type)
		}
	}
	return out, nil
}

type Batch struct {
	Leads     []domain.RawLead
	PerSource map[string]int
	Errors    []*SourceError
}

// FetchAll runs every fetcher concurrently, each under its own timeout.
// A failing source is recorded in Errors and contributes zero leads; the
// rest of the batch is unaffected. Leads keep fetcher order.
func FetchAll(ctx context.Context, fetchers []types.Fetcher, timeout time.Duration, log *zap.Logger) Batch {
	if timeout <= 0 {
		timeout = defaultSourceTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}

	results := make([][]domain.RawLead, len(fetchers))
	errs := make([]error, len(fetchers))

	var g errgroup.Group
	for i, f := range fetchers {
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			log.Debug("fetching source", zap.String("source", f.Name()))
			leads, err := f.Fetch(fctx)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = leads
			return nil
		})
	}
	_ = g.Wait()

	b := Batch{PerSource: make(map[string]int, len(fetchers))}
	for i, f := range fetchers {
		if errs[i] != nil {
			se := &SourceError{Source: f.Name(), Err: errs[i]}
			b.Errors = append(b.Errors, se)
			log.Warn("source failed", zap.String("source", f.Name()), zap.Error(errs[i]))
			continue
		}
		b.PerSource[f.Name()] = len(results[i])
		b.Leads = append(b.Leads, results[i]...)
		log.Info("source fetched", zap.String("source", f.Name()), zap.Int("leads", len(results[i])))
	}
	return b
}
