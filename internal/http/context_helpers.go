package httpx

import (
	"context"

	domainauth "github.com/financehub/financehub-web/internal/domain/auth"
)

type sessionCtxKey struct{}

// WithSession attaches the signed-in session to ctx. A nil session leaves ctx as is.
func WithSession(ctx context.Context, s *domainauth.Session) context.Context {
	if s == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionCtxKey{}, s)
}

// SessionFromContext returns the session placed by the auth middleware.
func SessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	s, ok := ctx.Value(sessionCtxKey{}).(*domainauth.Session)
	return s, ok && s != nil
}

// SessionIDFromContext is the key the session panel's user lookup uses.
// Anonymous requests yield "".
func SessionIDFromContext(ctx context.Context) string {
	if s, ok := SessionFromContext(ctx); ok {
		return s.ID
	}
	return ""
}

// IsSignedIn reports whether the request carries a live session.
func IsSignedIn(ctx context.Context) bool {
	_, ok := SessionFromContext(ctx)
	return ok
}
