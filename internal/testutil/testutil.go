// Package testutil holds Redis fixtures shared by adapter, bootstrap and CLI tests.
package testutil

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	domainauth "github.com/financehub/financehub-web/internal/domain/auth"
)

// SetupTestRedis starts miniredis and returns a pinged client bound to it.
// Both are closed through t.Cleanup. Use the server to FastForward TTLs or
// SetError to simulate an outage.
func SetupTestRedis(t testing.TB) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Logf("warning: failed to close redis client: %v", err)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("miniredis ping failed: %v", err)
	}
	return client, mr
}

// SeedSession writes s under prefix+s.ID in the JSON shape the session store
// reads, bypassing the store's own TTL handling.
func SeedSession(t testing.TB, mr *miniredis.Miniredis, prefix string, s domainauth.Session) {
	t.Helper()
	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal session: %v", err)
	}
	if err := mr.Set(prefix+s.ID, string(raw)); err != nil {
		t.Fatalf("seed session %s: %v", s.ID, err)
	}
}

// MemberSession is a live member session for id expiring in an hour.
func MemberSession(id, fullName, email string) domainauth.Session {
	return domainauth.Session{
		ID:        id,
		UserID:    "user-" + id,
		FullName:  fullName,
		Email:     email,
		Role:      domainauth.RoleMember,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}
