package httpx

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfHandler(cfg CSRFConfig) http.Handler {
	return CSRFProtection(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetCSRFToken(r)))
	}))
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestCSRFProtection_GetIssuesToken(t *testing.T) {
	rec := httptest.NewRecorder()
	csrfHandler(CSRFConfig{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := rec.Result()
	defer resp.Body.Close()
	c := findCookie(resp, CSRFCookieName)
	require.NotNil(t, c)
	assert.NotEmpty(t, c.Value)
	assert.Equal(t, c.Value, rec.Body.String(), "token exposed to handlers")
	assert.False(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Equal(t, int((12 * time.Hour).Seconds()), c.MaxAge)
	assert.False(t, c.Secure)
}

func TestCSRFProtection_ExistingCookieReused(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "existing"})
	rec := httptest.NewRecorder()
	csrfHandler(CSRFConfig{}).ServeHTTP(rec, req)

	resp := rec.Result()
	defer resp.Body.Close()
	assert.Nil(t, findCookie(resp, CSRFCookieName))
	assert.Equal(t, "existing", rec.Body.String())
}

func TestCSRFProtection_SecureCookie(t *testing.T) {
	for name, mutate := range map[string]func(*http.Request){
		"tls":       func(r *http.Request) { r.TLS = &tls.ConnectionState{} },
		"forwarded": func(r *http.Request) { r.Header.Set("X-Forwarded-Proto", "http, https") },
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			mutate(req)
			rec := httptest.NewRecorder()
			csrfHandler(CSRFConfig{CookieDomain: "example.com", MaxAge: time.Hour}).ServeHTTP(rec, req)
			resp := rec.Result()
			defer resp.Body.Close()
			c := findCookie(resp, CSRFCookieName)
			require.NotNil(t, c)
			assert.True(t, c.Secure)
			assert.Equal(t, "example.com", c.Domain)
			assert.Equal(t, 3600, c.MaxAge)
		})
	}
}

func TestCSRFProtection_Validation(t *testing.T) {
	const token = "tok-123"
	form := url.Values{CSRFFormField: {token}}.Encode()

	tests := []struct {
		name        string
		method      string
		header      string
		contentType string
		body        string
		want        int
	}{
		{name: "post without token", method: http.MethodPost, want: http.StatusForbidden},
		{name: "post with header", method: http.MethodPost, header: token, want: http.StatusOK},
		{name: "post with wrong header", method: http.MethodPost, header: "nope", want: http.StatusForbidden},
		{name: "post with form", method: http.MethodPost, contentType: "application/x-www-form-urlencoded", body: form, want: http.StatusOK},
		{name: "form field ignored for json", method: http.MethodPost, contentType: "application/json", body: form, want: http.StatusForbidden},
		{name: "wrong header beats good form", method: http.MethodPost, header: "nope", contentType: "application/x-www-form-urlencoded", body: form, want: http.StatusForbidden},
		{name: "delete without token", method: http.MethodDelete, want: http.StatusForbidden},
		{name: "head exempt", method: http.MethodHead, want: http.StatusOK},
		{name: "options exempt", method: http.MethodOptions, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/auth/logout", strings.NewReader(tt.body))
			req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: token})
			if tt.header != "" {
				req.Header.Set(CSRFHeaderName, tt.header)
			}
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			csrfHandler(CSRFConfig{}).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestCSRFProtection_PostWithoutCookieFails(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set(CSRFHeaderName, "anything")
	rec := httptest.NewRecorder()
	csrfHandler(CSRFConfig{}).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetCSRFToken_NoToken(t *testing.T) {
	assert.Empty(t, GetCSRFToken(httptest.NewRequest(http.MethodGet, "/", nil)))
}
