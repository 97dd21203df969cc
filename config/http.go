package config

import "time"

const (
	defaultHTTPAddr          = ":8080"
	defaultReadHeaderTimeout = 10 * time.Second
	defaultReadTimeout       = 30 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultShutdownTimeout   = 10 * time.Second

	minCompressionLevel = 1
	maxCompressionLevel = 9
)

// HTTPConfig controls the shell's listener, cookies and response encoding.
type HTTPConfig struct {
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// CookieDomain scopes the session and CSRF cookies. Empty means host-only.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// Gzip for HTML, CSS, JS and JSON. Off unless a proxy in front does not compress.
	CompressionEnabled bool `env:"HTTP_COMPRESSION_ENABLED" envDefault:"false"`
	CompressionLevel   int  `env:"HTTP_COMPRESSION_LEVEL" envDefault:"6"`

	Timeouts ServerTimeouts `envPrefix:"HTTP_"`
}

// ServerTimeouts are copied onto http.Server. Shutdown bounds the
// drain of in-flight requests and pending logouts on SIGTERM.
type ServerTimeouts struct {
	ReadHeader time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"10s"`
	Read       time.Duration `env:"READ_TIMEOUT" envDefault:"30s"`
	Write      time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	Idle       time.Duration `env:"IDLE_TIMEOUT" envDefault:"120s"`
	Shutdown   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Sanitize clamps the gzip level and replaces unusable listener settings.
func (h *HTTPConfig) Sanitize() {
	if h.Addr == "" {
		h.Addr = defaultHTTPAddr
	}
	h.CompressionLevel = min(max(h.CompressionLevel, minCompressionLevel), maxCompressionLevel)
	h.Timeouts.sanitize()
}

func (t *ServerTimeouts) sanitize() {
	orDefault(&t.ReadHeader, defaultReadHeaderTimeout)
	orDefault(&t.Read, defaultReadTimeout)
	orDefault(&t.Write, defaultWriteTimeout)
	orDefault(&t.Idle, defaultIdleTimeout)
	orDefault(&t.Shutdown, defaultShutdownTimeout)
}

func orDefault(d *time.Duration, def time.Duration) {
	if *d <= 0 {
		*d = def
	}
}
