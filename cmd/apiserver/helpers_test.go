package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/amoylab/tourdesk/internal/common/config"
	"github.com/amoylab/tourdesk/internal/notifier"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.APIServerConfig {
	t.Helper()
	return &config.APIServerConfig{
		Database:   config.DatabaseConfig{Type: "sqlite", DBName: filepath.Join(t.TempDir(), "apiserver.db")},
		JWT:        config.JWTConfig{SecretKey: "test-secret-key-with-32-characters", Duration: time.Hour},
		SuperAdmin: config.SuperAdminConfig{Username: "root", Password: "root-pass"},
		Metrics:    config.MetricsConfig{Enabled: true, Path: "/metrics", Namespace: "tourdesk_test"},
		Cache:      config.CacheConfig{Enabled: true, TTL: time.Minute},
		Booking:    config.BookingConfig{ReferencePrefix: "BK", VoucherPrefix: "VC", DefaultCurrency: "EUR", BulkLimit: 10},
	}
}

func TestInitLogger(t *testing.T) {
	lg := initLogger(&config.APIServerConfig{})
	require.NotNil(t, lg)
	_ = lg.Sync()
}

func TestInitDatabase_SQLite(t *testing.T) {
	db := initDatabase(zap.NewNop(), &config.DatabaseConfig{Type: "sqlite", DBName: filepath.Join(t.TempDir(), "apiserver.db")})
	t.Cleanup(func() { _ = db.Close() })
}

func TestInitRedis(t *testing.T) {
	cfg := &config.APIServerConfig{}
	assert.Nil(t, initRedis(context.Background(), zap.NewNop(), cfg))

	mr := miniredis.RunT(t)
	cfg.Redis = config.RedisConfig{Addr: mr.Addr(), Addrs: []string{mr.Addr()}, ClusterType: cnst.RedisClusterTypeSingle}
	client := initRedis(context.Background(), zap.NewNop(), cfg)
	require.NotNil(t, client)
	t.Cleanup(func() { _ = client.Close() })
}

func TestInitNotifier_None(t *testing.T) {
	n := initNotifier(context.Background(), zap.NewNop(), &config.NotifierConfig{}, nil)
	require.NotNil(t, n)
	assert.False(t, n.CanSend())
}

func TestInitI18n(t *testing.T) {
	initI18n(&config.I18nConfig{Path: "configs/i18n"})
}

func TestSeed_IsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	db := initDatabase(zap.NewNop(), &cfg.Database)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, seed(context.Background(), zap.NewNop(), db, cfg))
	require.NoError(t, seed(context.Background(), zap.NewNop(), db, cfg))
}

func TestInitRouter_Constructs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := testConfig(t)
	lg := zap.NewNop()
	db := initDatabase(lg, &cfg.Database)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, seed(ctx, lg, db, cfg))

	r, svc := initRouter(ctx, db, nil, notifier.NoopNotifier{}, cfg, lg)
	require.NotNil(t, r)
	require.NotNil(t, svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	body, _ := json.Marshal(map[string]string{"username": "root", "password": "root-pass"})
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tourdesk_test")
}

func TestInitScheduler(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := testConfig(t)
	db := initDatabase(zap.NewNop(), &cfg.Database)
	t.Cleanup(func() { _ = db.Close() })
	_, svc := initRouter(ctx, db, nil, notifier.NoopNotifier{}, cfg, zap.NewNop())

	assert.Nil(t, initScheduler(ctx, &config.SchedulerConfig{}, svc, zap.NewNop()))

	cs := initScheduler(ctx, &config.SchedulerConfig{Enabled: true, Interval: time.Hour}, svc, zap.NewNop())
	require.NotNil(t, cs)
	require.Eventually(t, func() bool { return cs.GetStatus().Runs == 1 }, 3*time.Second, 10*time.Millisecond)
	assert.Equal(t, "success", cs.GetStatus().LastResult.Status)
	cs.Stop()
}

func TestWatchEvents(t *testing.T) {
	err := watchEvents(context.Background(), notifier.NoopNotifier{}, &bytes.Buffer{})
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	ntf := notifier.NewRedisNotifier(zap.NewNop(), client, "tourdesk:test:events", 100)

	ctx, cancel := context.WithCancel(context.Background())
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() { done <- watchEvents(ctx, ntf, out) }()

	// XREAD needs to block on "$" before the publish
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, ntf.Publish(context.Background(), notifier.NewEvent(notifier.EventBookingCreated, 1, 7)))

	require.Eventually(t, func() bool {
		return bytes.Contains(out.Bytes(), []byte(`"booking.created"`))
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("watchEvents did not return after cancel")
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf.Bytes()...)
}
