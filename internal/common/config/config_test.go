package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEnv(t *testing.T) {
	t.Setenv("TD_A", "va")
	out := string(resolveEnv([]byte("a: ${TD_A:da}\nb: ${TD_B_UNSET:db}\nc: ${TD_C_UNSET}")))
	assert.Contains(t, out, "a: va")
	assert.Contains(t, out, "b: db")
	assert.True(t, strings.HasSuffix(out, "c: "))
}

func TestLoadConfig_APIServer(t *testing.T) {
	tmp := t.TempDir()
	old, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(old) })
	require.NoError(t, os.Chdir(tmp))
	t.Setenv("TD_DB_PATH", "./data/test.db")

	yaml := `
database:
  type: sqlite
  dbname: ${TD_DB_PATH:./data/tourdesk.db}
jwt:
  secret_key: ${TD_JWT_SECRET:0123456789abcdef0123456789abcdef}
redis:
  addr: "r1:6379, r2:6379"
notifier:
  type: redis
  redis:
    stream: booking-events
`
	file := filepath.Join(tmp, "apiserver.yaml")
	require.NoError(t, os.WriteFile(file, []byte(yaml), 0o644))

	cfg, path, err := LoadConfig[APIServerConfig]("apiserver.yaml")
	require.NoError(t, err)
	realFile, _ := filepath.EvalSymlinks(file)
	realPath, _ := filepath.EvalSymlinks(path)
	assert.Equal(t, realFile, realPath)

	assert.Equal(t, "./data/test.db", cfg.Database.DBName)
	assert.Equal(t, []string{"r1:6379", "r2:6379"}, cfg.Redis.Addrs)
	assert.Equal(t, "booking-events", cfg.Notifier.Redis.Stream)

	// defaults
	assert.Equal(t, ":5234", cfg.Addr)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Duration)
	assert.Equal(t, cfg.JWT.Duration, cfg.Session.TTL)
	assert.Equal(t, cnst.SessionStoreMemory, cfg.Session.Type)
	assert.Equal(t, "BK", cfg.Booking.ReferencePrefix)
	assert.Equal(t, "USD", cfg.Booking.DefaultCurrency)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)

	assert.NoError(t, ValidateAPIServerConfig(cfg, path))
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, _, err := LoadConfig[APIServerConfig](filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDatabaseConfig_GetDSN(t *testing.T) {
	pg := &DatabaseConfig{Type: "postgres", Host: "h", Port: 5432, User: "u", Password: "p", DBName: "d", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", pg.GetDSN())

	my := &DatabaseConfig{Type: "mysql", Host: "h", Port: 3306, User: "u", Password: "p", DBName: "d"}
	assert.Equal(t, "u:p@tcp(h:3306)/d?charset=utf8mb4&parseTime=True&loc=Local", my.GetDSN())

	dbPath := filepath.Join(t.TempDir(), "data", "app.sqlite")
	lite := &DatabaseConfig{Type: "sqlite", DBName: dbPath}
	assert.Equal(t, dbPath, lite.GetDSN())
	_, err := os.Stat(filepath.Dir(dbPath))
	assert.NoError(t, err)

	mem := &DatabaseConfig{Type: "sqlite3", DBName: ":memory:"}
	assert.Equal(t, ":memory:", mem.GetDSN())

	assert.Equal(t, "", (&DatabaseConfig{Type: "oracle"}).GetDSN())
}
