package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	srv := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestSetAndGetCache(t *testing.T) {
	ctx := context.Background()
	rdb := newTestRedis(t)

	require.NoError(t, SetCache(ctx, rdb, "k", map[string]int{"a": 1}, time.Minute))

	var got map[string]int
	found, err := GetCache(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, got["a"])

	found, err = GetCache(ctx, rdb, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDeleteCachePrefix(t *testing.T) {
	ctx := context.Background()
	rdb := newTestRedis(t)

	k1 := SummaryKey("u1", 0, "month", "2025-09-01", "EXPENSE")
	k2 := SummaryKey("u1", 3, "dates", "2025-09-01")
	k3 := SummaryKey("u2", 0, "month", "2025-09-01", "EXPENSE")
	for _, k := range []string{k1, k2, k3} {
		require.NoError(t, SetCache(ctx, rdb, k, 1, time.Minute))
	}

	require.NoError(t, DeleteCachePrefix(ctx, rdb, SummaryPrefix("u1")))

	var v int
	for k, want := range map[string]bool{k1: false, k2: false, k3: true} {
		found, err := GetCache(ctx, rdb, k, &v)
		require.NoError(t, err)
		assert.Equal(t, want, found, k)
	}
}

func TestDeleteCachePrefixWithPatternCharacters(t *testing.T) {
	ctx := context.Background()
	rdb := newTestRedis(t)

	users := []string{"u[1]", "a*b", "q?", `back\slash`, "x]"}
	for _, u := range users {
		require.NoError(t, SetCache(ctx, rdb, SummaryKey(u, 0, "month", "2025-09-01"), 1, time.Minute))
	}
	bystander := SummaryKey("u1", 0, "month", "2025-09-01")
	require.NoError(t, SetCache(ctx, rdb, bystander, 1, time.Minute))

	var v int
	for _, u := range users {
		require.NoError(t, DeleteCachePrefix(ctx, rdb, SummaryPrefix(u)))
		found, err := GetCache(ctx, rdb, SummaryKey(u, 0, "month", "2025-09-01"), &v)
		require.NoError(t, err)
		assert.False(t, found, u)
	}
	found, err := GetCache(ctx, rdb, bystander, &v)
	require.NoError(t, err)
	assert.True(t, found, "patterns of other users must not match u1")
}

func TestSummaryVersion(t *testing.T) {
	ctx := context.Background()
	rdb := newTestRedis(t)

	v, err := SummaryVersion(ctx, rdb, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)

	require.NoError(t, BumpSummaryVersion(ctx, rdb, "u1"))
	require.NoError(t, BumpSummaryVersion(ctx, rdb, "u1"))
	v, err = SummaryVersion(ctx, rdb, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
	assert.NotEqual(t, SummaryKey("u1", 0, "month"), SummaryKey("u1", v, "month"))

	// The version survives prefix invalidation
	require.NoError(t, DeleteCachePrefix(ctx, rdb, SummaryPrefix("u1")))
	v, err = SummaryVersion(ctx, rdb, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
}

func TestNilClientIsNoop(t *testing.T) {
	ctx := context.Background()
	var v int
	found, err := GetCache(ctx, nil, "k", &v)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, SetCache(ctx, nil, "k", 1, time.Minute))
	assert.NoError(t, DeleteCache(ctx, nil, "k"))
	assert.NoError(t, DeleteCachePrefix(ctx, nil, "k"))
	assert.NoError(t, BumpSummaryVersion(ctx, nil, "u1"))
	ver, err := SummaryVersion(ctx, nil, "u1")
	assert.NoError(t, err)
	assert.Zero(t, ver)
}
