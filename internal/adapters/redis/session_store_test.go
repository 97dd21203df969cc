package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/financehub/financehub-web/internal/domain/auth"
	"github.com/financehub/financehub-web/internal/testutil"
)

func testSession(id string, ttl time.Duration) domainauth.Session {
	return domainauth.Session{
		ID:        id,
		UserID:    "user-123",
		FullName:  "Alice Doe",
		Email:     "alice@example.com",
		Role:      domainauth.RoleMember,
		ExpiresAt: time.Now().Add(ttl),
	}
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	client, _ := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	session := testSession("sess-1", 30*time.Minute)
	require.NoError(t, store.Save(ctx, session))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, session.UserID, got.UserID)
	assert.Equal(t, session.FullName, got.FullName)
	assert.Equal(t, session.Email, got.Email)
	assert.Equal(t, session.Role, got.Role)
	assert.WithinDuration(t, session.ExpiresAt, got.ExpiresAt, time.Second)
}

func TestSessionStore_GetNonExistent(t *testing.T) {
	client, _ := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)

	_, err := store.Get(context.Background(), "missing")
	assert.Equal(t, ErrNotFound, err)

	_, err = store.Get(context.Background(), "")
	assert.Equal(t, ErrNotFound, err)
}

func TestSessionStore_Delete(t *testing.T) {
	client, _ := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession("sess-del", 30*time.Minute)))
	require.NoError(t, store.Delete(ctx, "sess-del"))

	_, err := store.Get(ctx, "sess-del")
	assert.Equal(t, ErrNotFound, err)

	assert.NoError(t, store.Delete(ctx, ""))
}

func TestSessionStore_TTLExpiration(t *testing.T) {
	client, mr := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession("sess-ttl", time.Minute)))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "sess-ttl")
	assert.Equal(t, ErrNotFound, err)
}

func TestSessionStore_StaleRecordIsRemoved(t *testing.T) {
	client, mr := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	testutil.SeedSession(t, mr, defaultSessionPrefix, testSession("sess-stale", -time.Minute))

	_, err := store.Get(ctx, "sess-stale")
	assert.Equal(t, ErrNotFound, err)
	assert.False(t, mr.Exists(defaultSessionPrefix+"sess-stale"))
}

func TestSessionStore_CustomPrefix(t *testing.T) {
	client, mr := testutil.SetupTestRedis(t)
	store := NewSessionStoreWithPrefix(client, "test-prefix:")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession("prefixed", 30*time.Minute)))
	assert.True(t, mr.Exists("test-prefix:prefixed"))

	got, err := store.Get(ctx, "prefixed")
	require.NoError(t, err)
	assert.Equal(t, "prefixed", got.ID)
}

func TestSessionStore_SaveValidation(t *testing.T) {
	client, _ := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	err := store.Save(ctx, testSession("", 30*time.Minute))
	require.ErrorContains(t, err, "session ID cannot be empty")

	err = store.Save(ctx, testSession("expired", -time.Hour))
	require.ErrorContains(t, err, "session is expired")
}

func TestSessionStore_RedisFailure(t *testing.T) {
	client, mr := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)

	mr.SetError("READONLY You can't write against a read only replica")
	t.Cleanup(func() { mr.SetError("") })

	_, err := store.Get(context.Background(), "any")
	require.Error(t, err)
	assert.NotEqual(t, ErrNotFound, err)
	assert.ErrorContains(t, err, "redis get session")
}
