package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode selects how users sign in.
type AuthMode string

const (
	// AuthModeOAuth signs users in through an OIDC identity provider.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock signs every visitor in as DevAuthConfig's identity. Local use only.
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText accepts "oauth" or "mock", case-insensitively.
func (a *AuthMode) UnmarshalText(text []byte) error {
	switch mode := AuthMode(strings.ToLower(strings.TrimSpace(string(text)))); mode {
	case AuthModeOAuth, AuthModeMock:
		*a = mode
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", mode)
	}
}

// AuthConfig chooses the sign-in provider and who counts as a member.
type AuthConfig struct {
	Mode    AuthMode      `env:"AUTH_MODE" envDefault:"oauth"`
	OAuth   OAuthConfig   `envPrefix:"OAUTH_"`
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// MemberGroup is the IdP group granted the member role. Empty admits
	// every authenticated user.
	MemberGroup string `env:"MEMBER_GROUP"`
}

// OAuthConfig locates the OIDC provider. Auth is disabled with a warning
// when DiscoveryURL, ClientID or ClientSecret is empty.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID" envDefault:"financehub"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:"financehub"`
	RedirectURL  string `env:"REDIRECT_URL" envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE" envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`

	// HTTPTimeout bounds discovery, token and userinfo calls to the IdP.
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
}

// DevAuthConfig is the identity used when AUTH_MODE=mock. Leave FullName
// empty to see the session panel's "User" fallback.
type DevAuthConfig struct {
	UserID          string        `env:"USER_ID" envDefault:"dev-user"`
	FullName        string        `env:"FULL_NAME" envDefault:"Dev User"`
	Email           string        `env:"EMAIL" envDefault:"dev@example.com"`
	Groups          []string      `env:"GROUPS" envDefault:"financehub-members" envSeparator:";"`
	SessionDuration time.Duration `env:"SESSION_DURATION" envDefault:"8h"`
}

const defaultIdPTimeout = 30 * time.Second

// Sanitize trims identity-bearing values and restores the IdP timeout.
func (a *AuthConfig) Sanitize() {
	a.MemberGroup = strings.TrimSpace(a.MemberGroup)
	a.OAuth.DiscoveryURL = strings.TrimSpace(a.OAuth.DiscoveryURL)
	a.DevAuth.FullName = strings.TrimSpace(a.DevAuth.FullName)
	orDefault(&a.OAuth.HTTPTimeout, defaultIdPTimeout)
}
