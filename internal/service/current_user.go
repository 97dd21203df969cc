package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	domainauth "github.com/financehub/financehub-web/internal/domain/auth"
	"github.com/financehub/financehub-web/internal/ports"
)

// DefaultUserCacheTTL is how long a resolved shell user is served from cache before revalidation.
const DefaultUserCacheTTL = 5 * time.Minute

// SessionGetter resolves a live session by ID. AuthService satisfies it.
type SessionGetter interface {
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
}

// CurrentUserServiceOptions groups dependencies for CurrentUserService.
type CurrentUserServiceOptions struct {
	Sessions SessionGetter
	Cache    ports.CurrentUserCache // optional
	TTL      time.Duration
	Logger   *slog.Logger
}

// CurrentUserService resolves the user summary rendered by the shell's session panel.
// Lookups go cache first, then the session store; concurrent misses for the same
// session share one load.
type CurrentUserService struct {
	sessions SessionGetter
	cache    ports.CurrentUserCache
	ttl      time.Duration
	logger   *slog.Logger
	group    singleflight.Group
}

// NewCurrentUserService constructs a CurrentUserService.
func NewCurrentUserService(opts CurrentUserServiceOptions) *CurrentUserService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultUserCacheTTL
	}
	return &CurrentUserService{
		sessions: opts.Sessions,
		cache:    opts.Cache,
		ttl:      ttl,
		logger:   logger.With("component", "current_user"),
	}
}

// FetchCurrentUser returns the signed-in user for sessionID.
// It returns (nil, nil) for anonymous requests and for unknown or expired sessions.
// Any other error means the user could not be resolved; callers render the fallback panel.
func (s *CurrentUserService) FetchCurrentUser(ctx context.Context, sessionID string) (*domainauth.CurrentUser, error) {
	if sessionID == "" {
		return nil, nil
	}

	if user := s.cached(ctx, sessionID); user != nil {
		return user, nil
	}

	v, err, _ := s.group.Do(sessionID, func() (any, error) {
		// Another caller may have filled the cache while we waited.
		if user := s.cached(ctx, sessionID); user != nil {
			return user, nil
		}
		return s.load(ctx, sessionID)
	})
	if err != nil {
		return nil, err
	}
	user, _ := v.(*domainauth.CurrentUser)
	if user == nil {
		return nil, nil
	}
	// Callers get their own copy; singleflight shares the value across waiters.
	out := *user
	return &out, nil
}

// Invalidate drops the cached user for sessionID so the next fetch revalidates.
func (s *CurrentUserService) Invalidate(ctx context.Context, sessionID string) error {
	if s.cache == nil || sessionID == "" {
		return nil
	}
	if err := s.cache.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("invalidate current user: %w", err)
	}
	return nil
}

func (s *CurrentUserService) cached(ctx context.Context, sessionID string) *domainauth.CurrentUser {
	if s.cache == nil {
		return nil
	}
	user, err := s.cache.Get(ctx, sessionID)
	if err != nil {
		s.logger.WarnContext(ctx, "current user cache read failed, falling back to session", "error", err)
		return nil
	}
	return user
}

func (s *CurrentUserService) load(ctx context.Context, sessionID string) (*domainauth.CurrentUser, error) {
	if s.sessions == nil {
		return nil, errors.New("current user: session source not configured")
	}
	sess, err := s.sessions.GetSession(ctx, sessionID)
	if errors.Is(err, domainauth.ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	user := sess.CurrentUser()
	if s.cache != nil {
		ttl := s.ttl
		if remaining := time.Until(sess.ExpiresAt); remaining < ttl {
			ttl = remaining
		}
		if ttl > 0 {
			if err := s.cache.Set(ctx, sessionID, user, ttl); err != nil {
				s.logger.WarnContext(ctx, "failed to cache current user", "error", err)
			}
		}
	}
	return &user, nil
}
