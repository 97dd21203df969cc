package httpx

import (
	"bytes"
	"html"
	"log/slog"
	"net/http"

	domainauth "github.com/financehub/financehub-web/internal/domain/auth"
	"github.com/financehub/financehub-web/internal/domain/shell"
	"github.com/financehub/financehub-web/internal/http/ui/viewmodel"
	"github.com/financehub/financehub-web/internal/ports"
	"github.com/financehub/financehub-web/internal/service"
)

var _ ports.CurrentUserSource = (*service.CurrentUserService)(nil)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T      *TemplateRenderer
	Menu   shell.Menu
	Users  ports.CurrentUserSource // optional; the panel falls back to "User" without it
	IsDev  bool                    // show template error details in responses
	Logger *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	PageTitle   string // defaults to the active menu item's title
	CurrentPage string // content template key
}

// PageSpec describes one page render.
type PageSpec struct {
	Meta    PageMeta
	Content any
}

// currentUser reads the user for the request's session. Failures are logged
// and rendered as an anonymous panel.
func (h *UIHandlers) currentUser(r *http.Request) *domainauth.CurrentUser {
	sessionID := SessionIDFromContext(r.Context())
	if h.Users == nil || sessionID == "" {
		return nil
	}
	user, err := h.Users.FetchCurrentUser(r.Context(), sessionID)
	if err != nil {
		h.logger().WarnContext(r.Context(), "current user unavailable, rendering fallback panel",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		return nil
	}
	return user
}

// buildShell snapshots menu, path and user for a single render.
func (h *UIHandlers) buildShell(r *http.Request, meta PageMeta) viewmodel.Shell {
	return viewmodel.BuildShell(viewmodel.ShellInput{
		Menu:            h.Menu,
		CurrentPath:     r.URL.Path,
		CurrentPage:     meta.CurrentPage,
		PageTitle:       meta.PageTitle,
		User:            h.currentUser(r),
		CSRFToken:       GetCSRFToken(r),
		IsAuthenticated: IsSignedIn(r.Context()),
	})
}

// Page builds the shell around spec.Content and renders it.
func (h *UIHandlers) Page(w http.ResponseWriter, r *http.Request, spec PageSpec) {
	data := &viewmodel.Page{
		Shell:   h.buildShell(r, spec.Meta),
		Content: spec.Content,
	}
	h.renderPage(w, r, data)
}

// renderPage renders the full layout, or for htmx navigation only the content
// plus a <title>, an out-of-band header title and a nav:activate trigger.
func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, data *viewmodel.Page) {
	varyOnHTMX(w)
	if !WantsPartial(r) {
		if err := h.T.RenderFull(w, r, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
		}
		return
	}

	var buf bytes.Buffer
	buf.WriteString(`<title>` + html.EscapeString(data.Title) + `</title>`)
	buf.WriteString(`<h1 id="header-title" class="header-title" hx-swap-oob="outerHTML">` +
		html.EscapeString(data.PageTitle) + `</h1>`)
	if err := h.T.ExecuteTo(&buf, ContentTemplateFor(data.CurrentPage), data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	triggerNavActivate(w, r.URL.Path)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger().ErrorContext(r.Context(), "failed to write partial response", slog.Any("error", err))
	}
}

// logAndRenderTemplateError logs template errors; details reach the response only in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().ErrorContext(r.Context(), "template rendering failed",
		slog.Any("error", err),
		slog.String("context", context),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
	)

	if !h.IsDev {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	if _, writeErr := w.Write([]byte(`<div class="template-error">` +
		`<h2>Template Rendering Error</h2>` +
		`<p><strong>Context:</strong> ` + html.EscapeString(context) + `</p>` +
		`<p><strong>Path:</strong> ` + html.EscapeString(r.URL.Path) + `</p>` +
		`<pre>` + html.EscapeString(err.Error()) + `</pre></div>`)); writeErr != nil {
		h.logger().ErrorContext(r.Context(), "failed to write template error response", slog.Any("error", writeErr))
	}
}
