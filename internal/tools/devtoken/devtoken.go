// Package devtoken mints session tokens for local development.
package devtoken

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	entrypoint "github.com/louisbranch/printstudio/internal/platform/cmd"
	"github.com/louisbranch/printstudio/internal/services/studio/identity"
)

// Config holds configuration for token minting.
type Config struct {
	Secret string        `env:"SESSION_SECRET"`
	Issuer string        `env:"SESSION_ISSUER" envDefault:"printstudio"`
	TTL    time.Duration `env:"DEV_TOKEN_TTL" envDefault:"24h"`

	UserID    string
	Name      string
	Email     string
	SessionID string
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	if fs == nil {
		return Config{}, errors.New("flag parser is required")
	}
	fs.StringVar(&cfg.UserID, "user", "", "user id (token subject)")
	fs.StringVar(&cfg.Name, "name", "", "display name claim")
	fs.StringVar(&cfg.Email, "email", "", "email claim")
	fs.StringVar(&cfg.SessionID, "sid", "", "session id claim")
	fs.DurationVar(&cfg.TTL, "ttl", cfg.TTL, "token lifetime")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run signs a token for cfg and writes it to out.
func Run(cfg Config, out io.Writer, now func() time.Time) error {
	if out == nil {
		return errors.New("output is required")
	}
	if strings.TrimSpace(cfg.UserID) == "" {
		return errors.New("-user is required")
	}
	verifier, err := identity.NewVerifier(cfg.Issuer, []byte(strings.TrimSpace(cfg.Secret)))
	if err != nil {
		return err
	}
	if now != nil {
		verifier.Now = now
	}
	token, err := verifier.Issue(identity.Principal{
		UserID:    strings.TrimSpace(cfg.UserID),
		Name:      strings.TrimSpace(cfg.Name),
		Email:     strings.TrimSpace(cfg.Email),
		SessionID: strings.TrimSpace(cfg.SessionID),
	}, cfg.TTL)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}
	_, err = fmt.Fprintln(out, token)
	return err
}
