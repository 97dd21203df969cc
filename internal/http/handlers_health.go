package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const healthResponse = `{"status":"ok"}`

// readinessTimeout bounds each dependency check.
const readinessTimeout = 2 * time.Second

// Pinger is a dependency that can report its availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

// Ping calls f.
func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// healthHandler returns a simple 200 OK status for liveness checks.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = io.WriteString(w, healthResponse) // client gone; nothing to recover
}

// readyHandler reports 503 until every named dependency answers a ping.
// Checks run concurrently; failures are logged but not echoed to the caller.
func readyHandler(checks map[string]Pinger, logger *slog.Logger) http.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			mu     sync.Mutex
			failed = map[string]string{}
			g      errgroup.Group
		)
		for name, p := range checks {
			g.Go(func() error {
				ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
				defer cancel()
				if err := p.Ping(ctx); err != nil {
					logger.WarnContext(r.Context(), "readiness check failed",
						slog.String("dependency", name),
						slog.Any("error", err),
					)
					mu.Lock()
					failed[name] = "unavailable"
					mu.Unlock()
				}
				return nil
			})
		}
		_ = g.Wait() // checks record failures instead of returning them

		if len(failed) > 0 {
			WriteJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "checks": failed})
			return
		}
		healthHandler(w, r)
	}
}
