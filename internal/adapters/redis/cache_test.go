package redisad

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"everjourney/internal/domain"
)

func newMini(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = c.Close() })
	return mr, c
}

type facet struct {
	Cities []string `json:"cities"`
	Max    float64  `json:"max"`
}

func TestCache_SetGetDel(t *testing.T) {
	mr, c := newMini(t)
	cache := NewWithClient(c)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "facets", facet{Cities: []string{"Goa"}, Max: 18000}, 60))
	assert.True(t, mr.Exists("facets"))

	var got facet
	ok, err := cache.Get(ctx, "facets", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"Goa"}, got.Cities)

	require.NoError(t, cache.Del(ctx, "facets"))
	assert.False(t, mr.Exists("facets"))
	ok, err = cache.Get(ctx, "facets", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_FillsLocalTierFromRedis(t *testing.T) {
	mr, c := newMini(t)
	cache := NewWithClient(c)
	ctx := context.Background()

	require.NoError(t, mr.Set("hotel:1", `{"cities":["Jaipur"],"max":1}`))
	var got facet
	ok, err := cache.Get(ctx, "hotel:1", &got)
	require.NoError(t, err)
	require.True(t, ok)

	// served locally even after Redis loses the key
	mr.Del("hotel:1")
	got = facet{}
	ok, err = cache.Get(ctx, "hotel:1", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"Jaipur"}, got.Cities)
}

func TestCache_RedisDownIsAnError(t *testing.T) {
	mr, c := newMini(t)
	cache := NewWithClient(c)
	mr.SetError("LOADING")

	var got facet
	ok, err := cache.Get(context.Background(), "missing", &got)
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestCache_LocalOnly(t *testing.T) {
	cache := NewLocal()
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", 42, 10))
	var n int
	ok, err := cache.Get(ctx, "k", &n)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 42, n)
	assert.NoError(t, cache.Ping(ctx))
}

func TestSessions_Redis(t *testing.T) {
	mr, c := newMini(t)
	s := NewSessions(c, time.Hour, 0)
	ctx := context.Background()

	u := domain.SessionUser{ID: "u1", Email: "a@example.com", Role: domain.RoleVendor, VendorType: domain.VendorHotel}
	id, err := s.Create(ctx, u)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, time.Hour, mr.TTL(sessionPrefix+id))

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, u, got)

	require.NoError(t, s.Delete(ctx, id))
	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	id, err = s.Create(ctx, u)
	require.NoError(t, err)
	mr.FastForward(2 * time.Hour)
	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessions_InMemory(t *testing.T) {
	s := NewSessions(nil, time.Minute, 0)
	ctx := context.Background()

	id, err := s.Create(ctx, domain.SessionUser{ID: "u2", Role: domain.RoleUser})
	require.NoError(t, err)
	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "u2", got.ID)

	_, err = s.Get(ctx, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, s.Delete(ctx, id))
	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessions_InMemoryBounded(t *testing.T) {
	s := NewSessions(nil, time.Hour, 5)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 10; i++ {
		id, err := s.Create(ctx, domain.SessionUser{ID: "u" + strconv.Itoa(i)})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	s.local.SyncUpdates()

	assert.Equal(t, 5, s.local.ItemCount())
	_, err := s.Get(ctx, ids[0])
	assert.ErrorIs(t, err, domain.ErrNotFound)
	got, err := s.Get(ctx, ids[9])
	require.NoError(t, err)
	assert.Equal(t, "u9", got.ID)
}
