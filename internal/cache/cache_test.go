package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedisCache(NewRedisClient(Options{Addr: mr.Addr()}), "hangman")
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestRedisCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	var got payload
	ok, err := c.GetJSON(ctx, LeaderboardKey(), &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetJSON(ctx, LeaderboardKey(), payload{Name: "alice", Score: 128}, time.Minute))
	assert.True(t, mr.Exists("hangman:leaderboard"))

	ok, err = c.GetJSON(ctx, LeaderboardKey(), &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, payload{Name: "alice", Score: 128}, got)
}

func TestRedisCache_TTLAndDelete(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	require.NoError(t, c.SetJSON(ctx, StatsKey("u1"), payload{Name: "a"}, time.Second*30))
	require.NoError(t, c.SetJSON(ctx, StatsKey("u2"), payload{Name: "b"}, time.Second*30))

	mr.FastForward(31 * time.Second)
	var got payload
	ok, err := c.GetJSON(ctx, StatsKey("u1"), &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetJSON(ctx, StatsKey("u1"), payload{Name: "a"}, time.Minute))
	require.NoError(t, c.Delete(ctx, StatsKey("u1"), LeaderboardKey()))
	assert.False(t, mr.Exists("hangman:stats:u1"))
	assert.NoError(t, c.Delete(ctx))
}

func TestRedisCache_CorruptValue(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("hangman:leaderboard", "{not json"))

	var got payload
	ok, err := c.GetJSON(context.Background(), LeaderboardKey(), &got)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisCache_Ping(t *testing.T) {
	c, mr := newTestCache(t)
	assert.NoError(t, c.Ping(context.Background()))

	mr.Close()
	assert.Error(t, c.Ping(context.Background()))
}

func TestNopCache(t *testing.T) {
	var c Cache = NopCache{}
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "k", 1, time.Minute))
	var v int
	ok, err := c.GetJSON(ctx, "k", &v)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.Ping(ctx))
}
