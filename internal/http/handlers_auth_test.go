package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/financehub/financehub-web/internal/domain/auth"
	"github.com/financehub/financehub-web/internal/service"
)

// mockAuthService is a test double for service.AuthService.
type mockAuthService struct {
	beginLoginFunc    func(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	completeLoginFunc func(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	getSessionFunc    func(ctx context.Context, sessionID string) (*domainauth.Session, error)
}

func (m *mockAuthService) BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error) {
	if m.beginLoginFunc != nil {
		return m.beginLoginFunc(ctx, redirectURL)
	}
	return &service.BeginLoginResult{
		AuthURL: "https://idp.example.com/auth?state=test-state&nonce=test-nonce",
		State:   "test-state",
		Nonce:   "test-nonce",
	}, nil
}

func (m *mockAuthService) CompleteLogin(
	ctx context.Context,
	input service.CompleteLoginInput,
) (*service.CompleteLoginResult, error) {
	if m.completeLoginFunc != nil {
		return m.completeLoginFunc(ctx, input)
	}
	return &service.CompleteLoginResult{
		Session: domainauth.Session{
			ID:        "test-session-id",
			UserID:    "test-user",
			Email:     "test@example.com",
			Role:      domainauth.RoleMember,
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}, nil
}

func (m *mockAuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if m.getSessionFunc != nil {
		return m.getSessionFunc(ctx, sessionID)
	}
	return &domainauth.Session{
		ID:        sessionID,
		UserID:    "test-user",
		FirstName: "Test",
		LastName:  "User",
		Email:     "test@example.com",
		Role:      domainauth.RoleMember,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

// recordingDispatcher records dispatched session IDs.
type recordingDispatcher struct {
	mu  sync.Mutex
	ids []string
}

func (d *recordingDispatcher) Dispatch(_ context.Context, sessionID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ids = append(d.ids, sessionID)
}

func (d *recordingDispatcher) dispatched() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.ids...)
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	resp := rec.Result()
	defer resp.Body.Close()
	return findCookie(resp, name)
}

func TestAuthHandlers_Login_Success(t *testing.T) {
	var gotRedirect string
	h := &AuthHandlers{Svc: &mockAuthService{
		beginLoginFunc: func(_ context.Context, redirectURL string) (*service.BeginLoginResult, error) {
			gotRedirect = redirectURL
			return &service.BeginLoginResult{AuthURL: "https://idp.example.com/auth", State: "s", Nonce: "n"}, nil
		},
	}}

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodGet, "/auth/login?redirect_uri=%2Fexpenses", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://idp.example.com/auth", rec.Header().Get("Location"))
	assert.Equal(t, "/expenses", gotRedirect)
	assert.Equal(t, "s", cookieByName(rec, oauthStateCookie).Value)
	assert.Equal(t, "n", cookieByName(rec, oauthNonceCookie).Value)
	assert.Equal(t, "/expenses", cookieByName(rec, postLoginRedirectCookie).Value)
	assert.True(t, cookieByName(rec, oauthStateCookie).HttpOnly)
}

func TestAuthHandlers_Login_InvalidRedirectURI(t *testing.T) {
	for _, raw := range []string{"https://evil.example.com/", "//evil.example.com", "relative", ""} {
		t.Run(raw, func(t *testing.T) {
			var gotRedirect string
			h := &AuthHandlers{Svc: &mockAuthService{
				beginLoginFunc: func(_ context.Context, redirectURL string) (*service.BeginLoginResult, error) {
					gotRedirect = redirectURL
					return &service.BeginLoginResult{AuthURL: "/x"}, nil
				},
			}}
			rec := httptest.NewRecorder()
			h.Login(rec, httptest.NewRequest(http.MethodGet, "/auth/login?redirect_uri="+url.QueryEscape(raw), nil))
			assert.Equal(t, "/", gotRedirect)
		})
	}
}

func TestAuthHandlers_Login_ProviderFailure(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{
		beginLoginFunc: func(context.Context, string) (*service.BeginLoginResult, error) {
			return nil, errors.New("discovery timeout at https://idp.internal")
		},
	}}
	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodGet, "/auth/login", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "login_failed")
	assert.NotContains(t, rec.Body.String(), "idp.internal")
}

func TestAuthHandlers_Callback_Success(t *testing.T) {
	var got service.CompleteLoginInput
	h := &AuthHandlers{Svc: &mockAuthService{
		completeLoginFunc: func(_ context.Context, in service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
			got = in
			return &service.CompleteLoginResult{Session: domainauth.Session{ID: "sess-1", ExpiresAt: time.Now().Add(time.Hour)}}, nil
		},
	}}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state=st", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "st"})
	req.AddCookie(&http.Cookie{Name: oauthNonceCookie, Value: "no"})
	req.AddCookie(&http.Cookie{Name: postLoginRedirectCookie, Value: "/friends"})
	rec := httptest.NewRecorder()
	h.Callback(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/friends", rec.Header().Get("Location"))
	assert.Equal(t, service.CompleteLoginInput{Code: "abc", State: "st", Nonce: "no"}, got)

	session := cookieByName(rec, SessionCookieName)
	require.NotNil(t, session)
	assert.Equal(t, "sess-1", session.Value)
	assert.True(t, session.HttpOnly)
	assert.Positive(t, session.MaxAge)
	assert.Equal(t, -1, cookieByName(rec, oauthStateCookie).MaxAge)
	assert.Equal(t, -1, cookieByName(rec, postLoginRedirectCookie).MaxAge)
}

func TestAuthHandlers_Callback_Errors(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		cookies map[string]string
		errCode string
		status  int
	}{
		{name: "missing code", target: "/auth/callback?state=st", errCode: "missing_code", status: http.StatusBadRequest},
		{name: "missing state", target: "/auth/callback?code=c", errCode: "missing_state", status: http.StatusBadRequest},
		{name: "state mismatch", target: "/auth/callback?code=c&state=st",
			cookies: map[string]string{oauthStateCookie: "other"}, errCode: "invalid_state", status: http.StatusBadRequest},
		{name: "missing nonce", target: "/auth/callback?code=c&state=st",
			cookies: map[string]string{oauthStateCookie: "st"}, errCode: "missing_nonce", status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			for k, v := range tt.cookies {
				req.AddCookie(&http.Cookie{Name: k, Value: v})
			}
			rec := httptest.NewRecorder()
			(&AuthHandlers{Svc: &mockAuthService{}}).Callback(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.errCode)
		})
	}
}

func TestAuthHandlers_Callback_CompletionFails(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{
		completeLoginFunc: func(context.Context, service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
			return nil, errors.New("nonce mismatch")
		},
	}}
	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=c&state=st", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "st"})
	req.AddCookie(&http.Cookie{Name: oauthNonceCookie, Value: "n"})
	rec := httptest.NewRecorder()
	h.Callback(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "login_completion_failed")
	assert.Nil(t, cookieByName(rec, SessionCookieName))
}

func TestAuthHandlers_Logout_DispatchesAndRedirects(t *testing.T) {
	d := &recordingDispatcher{}
	h := &AuthHandlers{Svc: &mockAuthService{}, Logouts: d}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout",
		strings.NewReader(url.Values{"redirect_uri": {"/analytics"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-9"})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/signed-out?redirect_uri=%2Fanalytics", rec.Header().Get("Location"))
	assert.Equal(t, []string{"sess-9"}, d.dispatched())
	cleared := cookieByName(rec, SessionCookieName)
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)
}

func TestAuthHandlers_Logout_NoSessionCookie(t *testing.T) {
	d := &recordingDispatcher{}
	h := &AuthHandlers{Logouts: d}
	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/signed-out?redirect_uri=%2Fdashboard", rec.Header().Get("Location"))
	assert.Empty(t, d.dispatched())
}

func TestAuthHandlers_Logout_NilDispatcher(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "s"})
	rec := httptest.NewRecorder()
	require.NotPanics(t, func() { (&AuthHandlers{}).Logout(rec, req) })
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestAuthHandlers_Logout_HTMXAndJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Hx-Request", "true")
	rec := httptest.NewRecorder()
	(&AuthHandlers{}).Logout(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "/auth/signed-out?redirect_uri=%2Fdashboard", rec.Header().Get("Hx-Redirect"))

	req = httptest.NewRequest(http.MethodPost, "/auth/logout?redirect_uri=https://evil.example.com", nil)
	req.Header.Set("Accept", "application/json")
	rec = httptest.NewRecorder()
	(&AuthHandlers{}).Logout(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "/auth/signed-out?redirect_uri=%2F", body["redirect_to"])
}

func TestAuthHandlers_Status_Authenticated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "s1"})
	rec := httptest.NewRecorder()
	(&AuthHandlers{Svc: &mockAuthService{}}).Status(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Authenticated bool              `json:"authenticated"`
		User          map[string]string `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Authenticated)
	assert.Equal(t, "Test User", body.User["full_name"])
	assert.Equal(t, "test@example.com", body.User["email"])
	assert.Equal(t, "member", body.User["role"])
}

func TestAuthHandlers_Status_NotAuthenticated(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{
		getSessionFunc: func(context.Context, string) (*domainauth.Session, error) {
			return nil, domainauth.ErrSessionNotFound
		},
	}}
	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "gone"})
	rec := httptest.NewRecorder()
	h.Status(rec, req)

	assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())
	assert.Equal(t, -1, cookieByName(rec, SessionCookieName).MaxAge)

	rec = httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/auth/status", nil))
	assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())
}

func TestSafeRedirectPath(t *testing.T) {
	assert.Equal(t, "/expenses?x=1", safeRedirectPath("/expenses?x=1"))
	assert.Equal(t, "/", safeRedirectPath(""))
	assert.Equal(t, "/", safeRedirectPath("//evil.example.com"))
	assert.Equal(t, "/", safeRedirectPath("https://evil.example.com/x"))
	assert.Equal(t, "/", safeRedirectPath("javascript:alert(1)"))
	assert.Equal(t, "/", safeRedirectPath("dashboard"))
}
