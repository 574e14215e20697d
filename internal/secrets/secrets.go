package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"leadgen-engine/internal/config"
)

const (
	// "Service" groups the engine's secrets in the OS keychain.
	KeyringService = "leadgen"
)

var ErrNotFound = errors.New("secret not found (set it in keychain or via env)")

// Account is the keychain account a source's credential is stored under.
func Account(src config.Source) string {
	switch src.Type {
	case config.SourceInbox:
		return fmt.Sprintf("leadgen:imap:%s@%s", src.IMAP.Username, src.IMAP.Host)
	default:
		return fmt.Sprintf("leadgen:%s:%s", src.Type, src.Name)
	}
}

// EnvVar is the environment fallback for a source's credential,
// e.g. LEADGEN_PLACES_SECRET for a source named "places".
func EnvVar(src config.Source) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, src.Name)
	return "LEADGEN_" + name + "_SECRET"
}

// Get returns the secret for src: keychain first, then the environment.
func Get(src config.Source) (string, error) {
	if v, err := keyring.Get(KeyringService, Account(src)); err == nil && strings.TrimSpace(v) != "" {
		return v, nil
	}
	if v := strings.TrimSpace(os.Getenv(EnvVar(src))); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("source %s: %w", src.Name, ErrNotFound)
}

func Set(src config.Source, secret string) error {
	account := Account(src)
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(secret) == "" {
		return errors.New("secret is empty")
	}
	return keyring.Set(KeyringService, account, secret)
}

func Delete(src config.Source) error {
	err := keyring.Delete(KeyringService, Account(src))
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
