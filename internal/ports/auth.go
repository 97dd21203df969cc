// Package ports declares the interfaces the shell's services depend on:
// the identity provider, session persistence, role mapping and the
// current-user lookup behind the session panel. Adapters implement them.
package ports

import (
	"context"
	"time"

	domainauth "github.com/financehub/financehub-web/internal/domain/auth"
)

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	RedirectURL string
}

// AuthProvider initiates and completes an authentication flow against an IdP.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// RoleMapper maps provider groups to application roles.
type RoleMapper interface {
	Map(groups []string) domainauth.Role
}

// CurrentUserCache holds the user summaries rendered by the shell, keyed by session ID.
// Get returns (nil, nil) on a miss.
type CurrentUserCache interface {
	Get(ctx context.Context, sessionID string) (*domainauth.CurrentUser, error)
	Set(ctx context.Context, sessionID string, user domainauth.CurrentUser, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
}

// CurrentUserSource supplies the signed-in user's summary for a session.
// A nil user with a nil error means nobody is signed in.
type CurrentUserSource interface {
	FetchCurrentUser(ctx context.Context, sessionID string) (*domainauth.CurrentUser, error)
}
