package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultLogoutTimeout bounds a single detached logout.
const DefaultLogoutTimeout = 5 * time.Second

// SessionTerminator ends a server-side session. AuthService satisfies it.
type SessionTerminator interface {
	Logout(ctx context.Context, sessionID string) error
}

// LogoutDispatcherOptions groups dependencies for LogoutDispatcher.
type LogoutDispatcherOptions struct {
	Sessions SessionTerminator
	Timeout  time.Duration
	Logger   *slog.Logger
}

// LogoutDispatcher runs logouts in the background so request handlers never wait on the session store.
type LogoutDispatcher struct {
	sessions SessionTerminator
	timeout  time.Duration
	logger   *slog.Logger
	wg       sync.WaitGroup
}

// NewLogoutDispatcher constructs a LogoutDispatcher.
func NewLogoutDispatcher(opts LogoutDispatcherOptions) *LogoutDispatcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultLogoutTimeout
	}
	return &LogoutDispatcher{
		sessions: opts.Sessions,
		timeout:  timeout,
		logger:   logger.With("component", "logout"),
	}
}

// Dispatch starts logging out sessionID and returns immediately.
// The logout outlives ctx cancellation but not the dispatcher timeout.
// Failures and panics are logged, never returned.
func (d *LogoutDispatcher) Dispatch(ctx context.Context, sessionID string) {
	if d == nil || d.sessions == nil || sessionID == "" {
		return
	}
	d.wg.Add(1)
	go d.run(context.WithoutCancel(ctx), sessionID)
}

func (d *LogoutDispatcher) run(ctx context.Context, sessionID string) {
	defer d.wg.Done()
	defer func() {
		if rec := recover(); rec != nil {
			d.logger.ErrorContext(ctx, "logout panicked", "panic", fmt.Sprint(rec))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	if err := d.sessions.Logout(ctx, sessionID); err != nil {
		d.logger.WarnContext(ctx, "logout failed", "error", err, "duration", time.Since(start))
		return
	}
	d.logger.DebugContext(ctx, "logout completed", "duration", time.Since(start))
}

// Wait blocks until every dispatched logout has finished or ctx is done.
func (d *LogoutDispatcher) Wait(ctx context.Context) error {
	if d == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for logouts: %w", ctx.Err())
	}
}
