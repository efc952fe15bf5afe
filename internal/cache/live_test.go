package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"service-dispatch/internal/domain"
)

func newTestCache(t *testing.T, ttl time.Duration) (*RedisLiveCache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLiveCache(client, ttl), srv
}

func TestRedisLiveCache_SetThenGet(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, 30*time.Second)

	pos := domain.Position{
		CourierID:  7,
		Lat:        55.7558,
		Lng:        37.6173,
		SpeedKmh:   12.5,
		AccuracyM:  4,
		RecordedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, c.SetLive(context.Background(), &pos))

	got, err := c.GetLive(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, pos, *got)
}

func TestRedisLiveCache_MissReturnsNil(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, 30*time.Second)

	got, err := c.GetLive(context.Background(), 404)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestRedisLiveCache_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	c, srv := newTestCache(t, 30*time.Second)

	pos := domain.Position{CourierID: 3, Lat: 1, Lng: 2, RecordedAt: time.Now().UTC()}
	require.NoError(t, c.SetLive(context.Background(), &pos))

	srv.FastForward(31 * time.Second)

	got, err := c.GetLive(context.Background(), 3)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestRedisLiveCache_SetResetsTTL(t *testing.T) {
	t.Parallel()

	c, srv := newTestCache(t, 30*time.Second)

	pos := domain.Position{CourierID: 5, Lat: 1, Lng: 2, RecordedAt: time.Now().UTC()}
	require.NoError(t, c.SetLive(context.Background(), &pos))

	srv.FastForward(20 * time.Second)
	require.NoError(t, c.SetLive(context.Background(), &pos))
	srv.FastForward(20 * time.Second)

	got, err := c.GetLive(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, got)
}
