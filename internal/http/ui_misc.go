package httpx

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"

	"github.com/financehub/financehub-web/internal/http/ui/viewmodel"
)

// SignedOut renders the signed-out page with a Sign In button.
func (h *UIHandlers) SignedOut(w http.ResponseWriter, r *http.Request) {
	redirect := safeRedirectPath(r.URL.Query().Get("redirect_uri"))
	if h.T == nil {
		http.Redirect(w, r, "/auth/login?redirect_uri="+url.QueryEscape(redirect), http.StatusSeeOther)
		return
	}

	// RenderNamed buffers, so nothing is written when it fails.
	if err := h.T.RenderNamed(w, "signed-out-page", viewmodel.BuildSignedOut(redirect)); err != nil {
		http.Redirect(w, r, "/auth/login?redirect_uri="+url.QueryEscape(redirect), http.StatusSeeOther)
	}
}

// NotFound renders an HTML 404 page for browsers and a JSON error otherwise.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if IsBrowserRequest(r) {
		h.renderBrowserNotFound(w, r)
		return
	}
	WriteError(w, ErrorParams{
		Code:    http.StatusNotFound,
		ErrCode: "not_found",
		Err:     errors.New("not found"),
	})
}

func (h *UIHandlers) renderBrowserNotFound(w http.ResponseWriter, r *http.Request) {
	if h.T == nil {
		http.Error(w, "Page not found", http.StatusNotFound)
		return
	}

	data := viewmodel.BuildErrorPage(
		http.StatusNotFound,
		"Page not found",
		IsSignedIn(r.Context()),
		r.URL.RequestURI(),
	)

	var buf bytes.Buffer
	if err := h.T.ExecuteTo(&buf, "error-layout", data); err != nil {
		h.logger().ErrorContext(r.Context(), "not found render failed", "error", err)
		http.Error(w, "Page not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger().Error("failed to write not found response", "error", err)
	}
}
