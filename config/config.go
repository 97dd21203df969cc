// Package config declares the FinanceHub shell's environment-driven settings.
//
// Values are parsed with github.com/caarlos0/env; bootstrap.LoadConfig also
// reads a local .env file first. Call Sanitize after parsing.
package config

import (
	"log/slog"
	"os"
	"slices"
	"strings"
)

// AppConfig is the complete process configuration.
type AppConfig struct {
	// IsDev serves templates and static files from disk and disables
	// template caching. NODE_ENV=development also enables it.
	IsDev bool `env:"DEV" envDefault:"false"`

	// LogLevel accepts slog level names (debug, info, warn, error).
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"info"`

	Auth    AuthConfig
	Redis   RedisConfig `envPrefix:"REDIS_"`
	HTTP    HTTPConfig
	Session SessionConfig `envPrefix:"SESSION_"`
}

// Sanitize fills defaults and normalizes values after parsing.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Session.Sanitize()
	c.Auth.Sanitize()
	c.IsDev = c.IsDev || nodeEnvIsDev(os.Getenv("NODE_ENV"))
}

var devNodeEnvs = []string{"development", "dev"}

func nodeEnvIsDev(v string) bool {
	return slices.Contains(devNodeEnvs, strings.ToLower(strings.TrimSpace(v)))
}
