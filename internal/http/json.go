package httpx

import (
	"encoding/json"
	"net/http"
)

// apiError is the body of every non-HTML error response.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteJSON encodes v before touching w so an encoding failure can still
// become a clean 500.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_, _ = w.Write(append(body, '\n'))
}

// ErrorParams groups the parts of a JSON error response.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes {"error": ErrCode, "message": ...} with status Code and
// marks it uncacheable. A nil Err falls back to the status text.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	body := apiError{Error: p.ErrCode, Message: http.StatusText(p.Code)}
	if p.Err != nil {
		body.Message = p.Err.Error()
	}
	w.Header().Set("Cache-Control", "no-store")
	WriteJSON(w, p.Code, body)
}
