package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/financehub/financehub-web/internal/domain/auth"
	"github.com/financehub/financehub-web/internal/ports"
	"github.com/financehub/financehub-web/internal/testutil"
)

var _ ports.CurrentUserCache = (*UserCache)(nil)

func TestUserCache_SetGet(t *testing.T) {
	client, mr := testutil.SetupTestRedis(t)
	cache := NewUserCache(client)
	ctx := context.Background()

	want := domainauth.CurrentUser{FullName: "alice", Email: "a@x.com"}
	require.NoError(t, cache.Set(ctx, "sess-1", want, time.Minute))
	assert.True(t, mr.Exists(defaultUserCachePrefix+"sess-1"))

	got, err := cache.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestUserCache_MissReturnsNil(t *testing.T) {
	client, _ := testutil.SetupTestRedis(t)
	cache := NewUserCache(client)

	got, err := cache.Get(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = cache.Get(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserCache_TTL(t *testing.T) {
	client, mr := testutil.SetupTestRedis(t)
	cache := NewUserCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "sess-ttl", domainauth.CurrentUser{FullName: "Bob"}, 5*time.Minute))
	assert.Equal(t, 5*time.Minute, mr.TTL(defaultUserCachePrefix+"sess-ttl"))

	mr.FastForward(6 * time.Minute)
	got, err := cache.Get(ctx, "sess-ttl")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserCache_Delete(t *testing.T) {
	client, _ := testutil.SetupTestRedis(t)
	cache := NewUserCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "sess-del", domainauth.CurrentUser{FullName: "Carol"}, time.Minute))
	require.NoError(t, cache.Delete(ctx, "sess-del"))

	got, err := cache.Get(ctx, "sess-del")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, cache.Delete(ctx, ""))
}

func TestUserCache_SetValidation(t *testing.T) {
	client, _ := testutil.SetupTestRedis(t)
	cache := NewUserCache(client)
	ctx := context.Background()

	require.ErrorContains(t, cache.Set(ctx, "", domainauth.CurrentUser{}, time.Minute), "session ID cannot be empty")
	require.ErrorContains(t, cache.Set(ctx, "s", domainauth.CurrentUser{}, 0), "invalid cache ttl")
}

func TestUserCache_CorruptEntry(t *testing.T) {
	client, mr := testutil.SetupTestRedis(t)
	cache := NewUserCache(client)

	require.NoError(t, mr.Set(defaultUserCachePrefix+"bad", "{not json"))
	_, err := cache.Get(context.Background(), "bad")
	require.ErrorContains(t, err, "unmarshal current user")
}
