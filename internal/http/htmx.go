package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
)

// htmx request and response headers used by the shell.
const (
	hxRequest        = "Hx-Request"
	hxHistoryRestore = "Hx-History-Restore-Request"
	hxCurrentURL     = "Hx-Current-Url"
	hxRedirect       = "Hx-Redirect"
	hxTrigger        = "Hx-Trigger"

	// navActivateEvent tells the sidebar script which link to highlight
	// after a partial swap.
	navActivateEvent = "nav:activate"
)

// IsHTMX reports whether htmx issued the request.
func IsHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get(hxRequest), "true")
}

// IsHistoryRestore reports a cache-miss history restore, which swaps the whole body.
func IsHistoryRestore(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get(hxHistoryRestore), "true")
}

// WantsPartial reports whether only the content fragment should be rendered.
func WantsPartial(r *http.Request) bool {
	return IsHTMX(r) && !IsHistoryRestore(r)
}

// SetHXRedirect makes htmx perform a full browser navigation to url.
func SetHXRedirect(w http.ResponseWriter, url string) {
	w.Header().Set(hxRedirect, url)
}

// redirectHTMX answers an htmx request with 204 and an Hx-Redirect to url.
func redirectHTMX(w http.ResponseWriter, url string) {
	SetHXRedirect(w, url)
	w.WriteHeader(http.StatusNoContent)
}

// SetHXTrigger sets Hx-Trigger to {"<event>": payload}. A nil or
// unserializable payload is sent as true.
func SetHXTrigger(w http.ResponseWriter, event string, payload any) {
	b, err := json.Marshal(map[string]any{event: payload})
	if payload == nil || err != nil {
		b, _ = json.Marshal(map[string]bool{event: true})
	}
	w.Header().Set(hxTrigger, string(b))
}

// triggerNavActivate announces the path whose nav link is now active.
func triggerNavActivate(w http.ResponseWriter, path string) {
	SetHXTrigger(w, navActivateEvent, map[string]string{"path": path})
}

// varyOnHTMX marks responses whose body depends on Hx-Request so caches
// keep full pages and fragments apart.
func varyOnHTMX(w http.ResponseWriter) {
	w.Header().Add("Vary", hxRequest)
}
