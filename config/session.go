package config

import "time"

const (
	defaultUserCacheTTL  = 5 * time.Minute
	defaultLogoutTimeout = 5 * time.Second
	defaultKeyPrefix     = "session:"
)

// SessionConfig controls session storage and the shell user cache.
type SessionConfig struct {
	// KeyPrefix namespaces session keys in Redis.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"session:"`

	// UserCacheTTL is how long the session panel's user summary is cached.
	UserCacheTTL time.Duration `env:"USER_CACHE_TTL" envDefault:"5m"`

	// LogoutTimeout bounds each background logout.
	LogoutTimeout time.Duration `env:"LOGOUT_TIMEOUT" envDefault:"5s"`
}

// Sanitize restores defaults for empty or non-positive values.
func (s *SessionConfig) Sanitize() {
	if s.KeyPrefix == "" {
		s.KeyPrefix = defaultKeyPrefix
	}
	orDefault(&s.UserCacheTTL, defaultUserCacheTTL)
	orDefault(&s.LogoutTimeout, defaultLogoutTimeout)
}
