package inbox

import (
	"context"
	"crypto/tls"
	"fmt"
	"strconv"
	"strings"

	"github.com/emersion/go-imap/v2"

	"leadgen-engine/internal/config"
	"leadgen-engine/internal/domain"
)

// PasswordFunc returns the IMAP password (usually an app password).
type PasswordFunc func() (string, error)

// Fetcher reads lead cards from unseen messages in one mailbox. Processed
// messages are marked \Seen so they are read once.
type Fetcher struct {
	src      config.Source
	password PasswordFunc
}

func New(src config.Source, password PasswordFunc) *Fetcher {
	return &Fetcher{src: src, password: password}
}

func (f *Fetcher) Name() string { return f.src.Name }

func (f *Fetcher) Fetch(ctx context.Context) ([]domain.RawLead, error) {
	cfg := f.src.IMAP
	if cfg.Host == "" || cfg.Username == "" {
		return nil, fmt.Errorf("inbox %s: missing imap host/username", f.src.Name)
	}
	if f.password == nil {
		return nil, fmt.Errorf("inbox %s: no password source", f.src.Name)
	}
	pw, err := f.password()
	if err != nil {
		return nil, err
	}

	addr := cfg.Host
	if !strings.Contains(addr, ":") {
		port := cfg.Port
		if port == 0 {
			port = 993
		}
		addr += ":" + strconv.Itoa(port)
	}
	host, _, _ := strings.Cut(addr, ":")

	c, err := dialAndLogin(ctx, addr, cfg.Username, pw, &tls.Config{MinVersion: tls.VersionTLS12, ServerName: host})
	if err != nil {
		return nil, err
	}
	defer logoutAndClose(c)

	mailbox := cfg.Mailbox
	if mailbox == "" {
		mailbox = "INBOX"
	}
	if _, err := c.Select(mailbox, &imap.SelectOptions{ReadOnly: false}).Wait(); err != nil {
		return nil, fmt.Errorf("imap select %s: %w", mailbox, err)
	}

	msgs, err := fetchUnseen(ctx, c, cfg.MaxEmails, cfg.SubjectAny)
	if err != nil {
		return nil, err
	}

	var (
		out  []domain.RawLead
		done []imap.UID
	)
	for _, m := range msgs {
		out = append(out, f.leadsFrom(m)...)
		done = append(done, m.UID)
	}

	if err := markSeen(c, done); err != nil {
		return nil, err
	}
	return out, nil
}

func (f *Fetcher) leadsFrom(m message) []domain.RawLead {
	leads := ParseCards(bodyText(m.Raw))
	for i := range leads {
		leads[i].Source = f.src.Name
		if !m.Date.IsZero() {
			at := m.Date.UTC()
			leads[i].ScrapedAt = &at
		}
	}
	return leads
}
