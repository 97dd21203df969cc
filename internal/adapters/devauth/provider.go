// Package devauth signs every visitor in as one configured identity so the
// shell can be run locally without an IdP.
package devauth

import (
	"context"
	"crypto/rand"
	"errors"
	"net/url"
	"slices"
	"time"

	domainauth "github.com/financehub/financehub-web/internal/domain/auth"
	"github.com/financehub/financehub-web/internal/ports"
)

const (
	defaultSessionDuration = 8 * time.Hour
	callbackPath           = "/auth/callback"
	devCode                = "dev"
)

// Config controls the dev identity. UserID and Email are required.
// FullName may be empty to exercise the shell's "User" fallback.
type Config struct {
	UserID          string
	FullName        string
	Email           string
	Groups          []string
	SessionDuration time.Duration // default 8h when zero
	Now             func() time.Time
}

// Provider implements ports.AuthProvider. Begin points the browser straight
// at the local callback; Exchange returns the configured identity with a
// fresh expiry.
type Provider struct {
	who      domainauth.Identity
	duration time.Duration
	now      func() time.Time
}

var _ ports.AuthProvider = (*Provider)(nil)

// NewProvider validates cfg and builds the provider.
func NewProvider(cfg Config) (*Provider, error) {
	switch {
	case cfg.UserID == "":
		return nil, errors.New("dev auth: UserID is required")
	case cfg.Email == "":
		return nil, errors.New("dev auth: Email is required")
	}

	p := &Provider{
		who: domainauth.Identity{
			UserID:   cfg.UserID,
			FullName: cfg.FullName,
			Email:    cfg.Email,
			Groups:   slices.Clone(cfg.Groups),
		},
		duration: cfg.SessionDuration,
		now:      cfg.Now,
	}
	if p.duration <= 0 {
		p.duration = defaultSessionDuration
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p, nil
}

// Begin returns the local callback URL carrying a fixed code and a random state.
func (p *Provider) Begin(context.Context, ports.BeginInput) (string, string, string, error) {
	state, nonce := rand.Text(), rand.Text()
	q := url.Values{"code": {devCode}, "state": {state}}
	return callbackPath + "?" + q.Encode(), state, nonce, nil
}

// Exchange ignores the code and returns the dev identity, valid for the
// configured duration from now.
func (p *Provider) Exchange(context.Context, ports.ExchangeInput) (domainauth.Identity, error) {
	who := p.who
	who.Groups = slices.Clone(p.who.Groups)
	who.ExpiresAt = p.now().Add(p.duration)
	return who, nil
}
