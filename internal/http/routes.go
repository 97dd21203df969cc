package httpx

import (
	"bytes"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"regexp"
	"strings"

	financehub "github.com/financehub/financehub-web"
	"github.com/financehub/financehub-web/internal/domain/shell"
	"github.com/financehub/financehub-web/internal/ports"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth         AuthServiceInterface    // nil disables the login flow and page protection
	Logouts      LogoutDispatcher        // optional; logout then only clears the cookie
	CurrentUser  ports.CurrentUserSource // optional; the session panel falls back without it
	Menu         shell.Menu              // defaults to shell.DefaultMenu()
	ReadyChecks  map[string]Pinger
	CookieDomain string
	IsDev        bool         // Development mode flag for hot reloading, etc.
	Logger       *slog.Logger // Logger for template and HTTP errors (optional)

	// TemplateFS and StaticFS override the embedded or on-disk frontend.
	TemplateFS fs.FS
	StaticFS   fs.FS
}

func (s RouterServices) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// NewRouter creates and configures a new HTTP router with browser middleware.
// Request IDs, logging, recovery and compression are applied by the caller.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()
	logger := services.logger()

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("GET /readyz", readyHandler(services.ReadyChecks, logger))

	csrf := CSRFProtection(CSRFConfig{CookieDomain: services.CookieDomain})
	if services.Auth != nil {
		registerAuthRoutes(mux, &AuthHandlers{
			Svc:          services.Auth,
			Logouts:      services.Logouts,
			CookieDomain: services.CookieDomain,
			Logger:       logger,
		}, csrf)
	}

	// Static assets at /static
	// Dev mode: serve from disk for hot reloading
	// Prod mode: serve from embedded FS
	staticFS := resolveStaticFS(services)
	mux.Handle("GET "+staticPrefix, staticWithCacheHeaders(
		http.StripPrefix(staticPrefix, http.FileServer(http.FS(staticFS))),
	))

	uiHandlers := setupUIHandlers(services, staticFS)
	if uiHandlers != nil {
		registerUIRoutes(mux, uiHandlers, uiRouteConfig{Auth: services.Auth, CSRF: csrf})
	}

	handler := &notFoundHandler{mux: mux, uiHandlers: uiHandlers, sessions: services.Auth}

	return BrowserDetection()(handler)
}

const staticPrefix = "/static/"

// resolveStaticFS picks the static asset tree: an explicit override, the disk
// in dev mode, or the embedded build.
func resolveStaticFS(services RouterServices) fs.FS {
	if services.StaticFS != nil {
		return services.StaticFS
	}
	if services.IsDev {
		return os.DirFS("frontend/static")
	}
	sub, err := fs.Sub(financehub.StaticFS, "frontend/static")
	if err != nil {
		services.logger().Warn("embedded static assets unavailable, serving from disk", slog.Any("error", err))
		return os.DirFS("frontend/static")
	}
	return sub
}

func resolveTemplateFS(services RouterServices) fs.FS {
	if services.TemplateFS != nil {
		return services.TemplateFS
	}
	if services.IsDev {
		return os.DirFS(TemplatePathFromRoot)
	}
	sub, err := fs.Sub(financehub.TemplateFS, "frontend/templates")
	if err != nil {
		services.logger().Warn("embedded templates unavailable, loading from disk", slog.Any("error", err))
		return os.DirFS(TemplatePathFromRoot)
	}
	return sub
}

// setupUIHandlers creates UI handlers with template renderer and asset resolver.
// A nil result leaves only the API, auth and static routes mounted.
func setupUIHandlers(services RouterServices, staticFS fs.FS) *UIHandlers {
	logger := services.logger()

	resolver, err := NewAssetResolverFromFS(staticFS, "manifest.json")
	if err != nil {
		logger.Warn("failed to load asset manifest, falling back to logical asset names", slog.Any("error", err))
		resolver = nil
	}

	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS:    resolveTemplateFS(services),
		Resolver:      resolver,
		CriticalCSSFS: staticFS,
		DevMode:       services.IsDev,
		Logger:        logger,
	})
	if err != nil {
		logger.Error("failed to create template renderer", slog.Any("error", err))
		return nil
	}

	menu := services.Menu
	if menu.Len() == 0 {
		menu = shell.DefaultMenu()
	}

	return &UIHandlers{
		T:      tr,
		Menu:   menu,
		Users:  services.CurrentUser,
		IsDev:  services.IsDev,
		Logger: logger,
	}
}

// staticWithCacheHeaders wraps a static file handler to add appropriate cache headers.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	// Matches content-hashed filenames including optional .map (e.g., app.abc123de.js, styles.def456ab.css.map)
	hashedFilePattern := regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hashedFilePattern.MatchString(r.URL.Path) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")
		}

		handler.ServeHTTP(w, r)
	})
}

// notFoundHandler wraps a ServeMux and provides custom 404 handling.
type notFoundHandler struct {
	mux        *http.ServeMux
	uiHandlers *UIHandlers
	sessions   SessionReader // lets 404 pages offer sign-in only to anonymous visitors
}

// ServeHTTP implements http.Handler and provides custom 404 handling.
func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cw := newCaptureWriter()
	h.mux.ServeHTTP(cw, r)

	if cw.status != http.StatusNotFound {
		cw.flushTo(w)
		return
	}
	// For missing static assets, preserve the default file server response
	if strings.HasPrefix(r.URL.Path, staticPrefix) {
		cw.flushTo(w)
		return
	}
	if h.uiHandlers == nil {
		http.NotFound(w, r)
		return
	}
	notFound := http.Handler(http.HandlerFunc(h.uiHandlers.NotFound))
	if h.sessions != nil {
		notFound = OptionalAuth(h.sessions)(notFound)
	}
	notFound.ServeHTTP(w, r)
}

// captureWriter buffers headers, status and body so we can decide post-dispatch.
type captureWriter struct {
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter() *captureWriter {
	return &captureWriter{header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	if _, err := w.Write(c.buf.Bytes()); err != nil {
		slog.Default().Error("failed to write captured response", slog.Any("error", err))
	}
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, csrf func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.Handle("POST /auth/logout", csrf(http.HandlerFunc(h.Logout)))
	mux.HandleFunc("GET /auth/status", h.Status)
}

// uiRouteConfig holds configuration for UI route registration.
type uiRouteConfig struct {
	Auth AuthServiceInterface
	CSRF func(http.Handler) http.Handler
}

// pageWrap issues the CSRF cookie for the logout form and, when auth is
// configured, requires a session.
func (cfg uiRouteConfig) pageWrap() func(http.Handler) http.Handler {
	if cfg.Auth == nil {
		return cfg.CSRF
	}
	requireAuth := RequireAuthBrowser(cfg.Auth)
	return func(h http.Handler) http.Handler {
		return requireAuth(cfg.CSRF(h))
	}
}

// registerUIRoutes wires the shell pages and the public signed-out page.
func registerUIRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.pageWrap()
	mux.Handle("GET /{$}", wrap(http.HandlerFunc(h.Index)))
	for _, d := range destinations {
		mux.Handle("GET "+shell.PageURL(d.PageName), wrap(h.destinationHandler(d)))
	}
	// Public auth-related UI routes (no auth wrapper)
	mux.Handle("GET /auth/signed-out", http.HandlerFunc(h.SignedOut))
}
