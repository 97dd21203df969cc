package bootstrap

import (
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/financehub/financehub-web/config"
	"github.com/financehub/financehub-web/internal/adapters/authroles"
	"github.com/financehub/financehub-web/internal/adapters/devauth"
	"github.com/financehub/financehub-web/internal/adapters/oidc"
	redisadapter "github.com/financehub/financehub-web/internal/adapters/redis"
	"github.com/financehub/financehub-web/internal/ports"
	"github.com/financehub/financehub-web/internal/service"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth          config.AuthConfig
	SessionPrefix string
	RedisClient   redis.UniversalClient
	// Users is dropped on logout so the next panel render re-reads the session.
	Users  ports.CurrentUserCache
	Logger *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Returns nil if auth is not configured or configuration is invalid.
func BuildAuthService(cfg AuthConfig) *service.AuthService {
	if cfg.RedisClient == nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("auth service disabled: redis client not configured", "mode", cfg.Auth.Mode)
		}
		return nil
	}

	prefix := cfg.SessionPrefix
	if prefix == "" {
		prefix = "session:"
	}
	sessionStore := redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, prefix)
	roleMapper := authroles.StaticRoleMapper{MemberGroup: cfg.Auth.MemberGroup}

	var (
		prov ports.AuthProvider
		ok   bool
	)
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		prov, ok = buildDevAuthProvider(cfg)
	case config.AuthModeOAuth:
		prov, ok = buildOAuthProvider(cfg)
	}
	if !ok {
		return nil
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider: prov,
		Sessions: sessionStore,
		Roles:    roleMapper,
		Users:    cfg.Users,
	})
}

//nolint:ireturn // callers only need the port.
func buildDevAuthProvider(cfg AuthConfig) (ports.AuthProvider, bool) {
	dev := cfg.Auth.DevAuth
	prov, err := devauth.NewProvider(devauth.Config{
		UserID:          dev.UserID,
		FullName:        dev.FullName,
		Email:           dev.Email,
		Groups:          dev.Groups,
		SessionDuration: dev.SessionDuration,
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create dev auth provider, auth disabled", "error", err)
		}
		return nil, false
	}
	if cfg.Logger != nil {
		cfg.Logger.Warn("dev auth enabled; every login signs in as the configured identity",
			"user_id", cfg.Auth.DevAuth.UserID)
	}
	return prov, true
}

//nolint:ireturn // callers only need the port.
func buildOAuthProvider(cfg AuthConfig) (ports.AuthProvider, bool) {
	oauth := cfg.Auth.OAuth
	if oauth.DiscoveryURL == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
		if cfg.Logger != nil {
			cfg.Logger.Warn("AuthModeOAuth selected but required config missing; auth disabled",
				"discovery_url_empty", oauth.DiscoveryURL == "",
				"client_id_empty", oauth.ClientID == "",
				"client_secret_empty", oauth.ClientSecret == "",
			)
		}
		return nil, false
	}

	prov, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		RedirectURL:  oauth.RedirectURL,
		Scope:        oauth.Scope,
		DiscoveryURL: oauth.DiscoveryURL,
		HTTPClient:   &http.Client{Timeout: oauth.HTTPTimeout},
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create OIDC provider, auth disabled", "error", err)
		}
		return nil, false
	}
	return prov, true
}
