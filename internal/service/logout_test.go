package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/financehub/financehub-web/internal/domain/auth"
)

type terminatorFunc func(ctx context.Context, sessionID string) error

func (f terminatorFunc) Logout(ctx context.Context, sessionID string) error { return f(ctx, sessionID) }

func waitForLogouts(t *testing.T, d *LogoutDispatcher) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Wait(ctx))
}

func TestLogoutDispatcher_RemovesSession(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	require.NoError(t, f.sessions.Save(ctx, liveSession("sess-1")))

	d := NewLogoutDispatcher(LogoutDispatcherOptions{Sessions: f.svc})
	d.Dispatch(ctx, "sess-1")
	waitForLogouts(t, d)

	_, err := f.sessions.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)
}

func TestLogoutDispatcher_ReturnsBeforeLogoutCompletes(t *testing.T) {
	release := make(chan struct{})
	var finished atomic.Bool
	d := NewLogoutDispatcher(LogoutDispatcherOptions{
		Sessions: terminatorFunc(func(context.Context, string) error {
			<-release
			finished.Store(true)
			return nil
		}),
	})

	d.Dispatch(context.Background(), "sess-1")
	assert.False(t, finished.Load())

	close(release)
	waitForLogouts(t, d)
	assert.True(t, finished.Load())
}

func TestLogoutDispatcher_SurvivesRequestCancellation(t *testing.T) {
	var sawErr atomic.Value
	d := NewLogoutDispatcher(LogoutDispatcherOptions{
		Sessions: terminatorFunc(func(ctx context.Context, _ string) error {
			time.Sleep(10 * time.Millisecond)
			sawErr.Store(ctx.Err() == nil)
			return nil
		}),
	})

	ctx, cancel := context.WithCancel(context.Background())
	d.Dispatch(ctx, "sess-1")
	cancel()
	waitForLogouts(t, d)
	assert.Equal(t, true, sawErr.Load())
}

func TestLogoutDispatcher_NeverPanicsOrReturnsErrors(t *testing.T) {
	tests := []struct {
		name string
		fn   terminatorFunc
	}{
		{"error", func(context.Context, string) error { return errors.New("redis down") }},
		{"panic", func(context.Context, string) error { panic("boom") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewLogoutDispatcher(LogoutDispatcherOptions{Sessions: tt.fn})
			assert.NotPanics(t, func() { d.Dispatch(context.Background(), "sess-1") })
			waitForLogouts(t, d)
		})
	}
}

func TestLogoutDispatcher_Timeout(t *testing.T) {
	var deadlineSet atomic.Bool
	d := NewLogoutDispatcher(LogoutDispatcherOptions{
		Timeout: 20 * time.Millisecond,
		Sessions: terminatorFunc(func(ctx context.Context, _ string) error {
			_, ok := ctx.Deadline()
			deadlineSet.Store(ok)
			<-ctx.Done()
			return ctx.Err()
		}),
	})

	d.Dispatch(context.Background(), "sess-1")
	waitForLogouts(t, d)
	assert.True(t, deadlineSet.Load())
}

func TestLogoutDispatcher_NoOps(t *testing.T) {
	var nilDispatcher *LogoutDispatcher
	assert.NotPanics(t, func() { nilDispatcher.Dispatch(context.Background(), "sess") })
	assert.NoError(t, nilDispatcher.Wait(context.Background()))

	var calls atomic.Int32
	d := NewLogoutDispatcher(LogoutDispatcherOptions{
		Sessions: terminatorFunc(func(context.Context, string) error {
			calls.Add(1)
			return nil
		}),
	})
	d.Dispatch(context.Background(), "")
	waitForLogouts(t, d)
	assert.Zero(t, calls.Load())

	unconfigured := NewLogoutDispatcher(LogoutDispatcherOptions{})
	assert.NotPanics(t, func() { unconfigured.Dispatch(context.Background(), "sess") })
	assert.Equal(t, DefaultLogoutTimeout, unconfigured.timeout)
}

func TestLogoutDispatcher_WaitHonorsContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	d := NewLogoutDispatcher(LogoutDispatcherOptions{
		Timeout: time.Minute,
		Sessions: terminatorFunc(func(context.Context, string) error {
			<-release
			return nil
		}),
	})
	d.Dispatch(context.Background(), "sess-1")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := d.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLogoutDispatcher_DeleteFailureKeepsSession(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	require.NoError(t, f.sessions.Save(ctx, liveSession("sess-1")))
	f.sessions.DeleteErr = errors.New("redis down")

	d := NewLogoutDispatcher(LogoutDispatcherOptions{Sessions: f.svc})
	d.Dispatch(ctx, "sess-1")
	waitForLogouts(t, d)

	_, err := f.sessions.Get(ctx, "sess-1")
	assert.NoError(t, err)
}
