package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/amoylab/tourdesk/internal/common/config"
	"github.com/amoylab/tourdesk/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingLoader struct {
	profiles map[uint]*session.Profile
	orgs     map[uint]*session.Organization
	calls    int
}

func (l *countingLoader) LoadProfile(_ context.Context, userID uint) (*session.Profile, error) {
	l.calls++
	p, ok := l.profiles[userID]
	if !ok {
		return nil, cnst.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (l *countingLoader) LoadOrganization(_ context.Context, orgID uint) (*session.Organization, error) {
	l.calls++
	o, ok := l.orgs[orgID]
	if !ok {
		return nil, cnst.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func newLoader() *countingLoader {
	return &countingLoader{
		profiles: map[uint]*session.Profile{
			1: {UserID: 1, Username: "alice", Role: "agent", OrgID: 10, IsActive: true},
		},
		orgs: map[uint]*session.Organization{
			10: {ID: 10, Name: "acme", Tier: cnst.TierPro},
		},
	}
}

func newRedis(t *testing.T) (*miniredis.Miniredis, redis.UniversalClient) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{mr.Addr()}})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestProfileCache_MemoryOnly(t *testing.T) {
	loader := newLoader()
	pc := NewProfileCache(ProfileCacheConfig{
		Cache:  config.CacheConfig{Enabled: true, TTL: time.Minute},
		Loader: loader,
		Logger: zap.NewNop(),
	})
	defer pc.Close()
	ctx := context.Background()

	p, err := pc.LoadProfile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)

	p, err = pc.LoadProfile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, 1, loader.calls)

	require.NoError(t, pc.InvalidateProfile(ctx, 1))
	_, err = pc.LoadProfile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, loader.calls)

	stats := pc.GetStats()
	assert.Equal(t, int64(1), stats.Total.Hits)
	assert.Equal(t, int64(2), stats.Total.Misses)
}

func TestProfileCache_ErrorsAreNotCached(t *testing.T) {
	loader := newLoader()
	pc := NewProfileCache(ProfileCacheConfig{Loader: loader, Logger: zap.NewNop()})
	defer pc.Close()

	_, err := pc.LoadProfile(context.Background(), 99)
	assert.True(t, errors.Is(err, cnst.ErrNotFound))
	_, err = pc.LoadProfile(context.Background(), 99)
	assert.Error(t, err)
	assert.Equal(t, 2, loader.calls)
}

func TestProfileCache_SharedThroughRedis(t *testing.T) {
	mr, client := newRedis(t)
	loader := newLoader()
	cfg := ProfileCacheConfig{
		RedisClient: client,
		Prefix:      "tourdesk",
		Cache:       config.CacheConfig{Enabled: true, TTL: time.Minute},
		Loader:      loader,
		Logger:      zap.NewNop(),
	}
	a := NewProfileCache(cfg)
	defer a.Close()
	b := NewProfileCache(cfg)
	defer b.Close()
	ctx := context.Background()

	org, err := a.LoadOrganization(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, cnst.TierPro, org.Tier)
	assert.True(t, mr.Exists("tourdesk:cache:organization:10"))

	org, err = b.LoadOrganization(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "acme", org.Name)
	assert.Equal(t, 1, loader.calls)

	require.NoError(t, a.InvalidateOrganization(ctx, 10))
	assert.False(t, mr.Exists("tourdesk:cache:organization:10"))
}

func TestProfileCache_CorruptEntryIsReloaded(t *testing.T) {
	mr, client := newRedis(t)
	loader := newLoader()
	pc := NewProfileCache(ProfileCacheConfig{
		RedisClient: client,
		Prefix:      "tourdesk",
		Cache:       config.CacheConfig{TTL: time.Minute},
		Loader:      loader,
		Logger:      zap.NewNop(),
	})
	defer pc.Close()
	require.NoError(t, mr.Set("tourdesk:cache:profile:1", "{not json"))

	p, err := pc.LoadProfile(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, 1, loader.calls)
}

func TestMultiLayerCache_ExpiryAndEviction(t *testing.T) {
	c := NewMultiLayerCache(MultiLayerCacheConfig{L1TTL: time.Second, MaxL1Items: 2}, zap.NewNop())
	defer c.Close()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", []byte("1")))
	require.NoError(t, c.Set(ctx, "b", []byte("2")))
	_, ok := c.Get(ctx, "a")
	require.True(t, ok)

	require.NoError(t, c.Set(ctx, "c", []byte("3")))
	_, ok = c.Get(ctx, "b")
	assert.False(t, ok, "b was least recently used")
	_, ok = c.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, int64(1), c.GetStats().L1Memory.Evictions)

	now = now.Add(2 * time.Second)
	_, ok = c.Get(ctx, "a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.cleanupExpiredEntries())
}
