package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/amoylab/tourdesk/pkg/trace"
	"github.com/amoylab/tourdesk/pkg/utils"
)

type (
	APIServerConfig struct {
		Addr       string           `yaml:"addr"`
		Logger     LoggerConfig     `yaml:"logger"`
		Database   DatabaseConfig   `yaml:"database"`
		Redis      RedisConfig      `yaml:"redis"`
		Session    SessionConfig    `yaml:"session"`
		JWT        JWTConfig        `yaml:"jwt"`
		SuperAdmin SuperAdminConfig `yaml:"super_admin"`
		I18n       I18nConfig       `yaml:"i18n"`
		Notifier   NotifierConfig   `yaml:"notifier"`
		Mailer     MailerConfig     `yaml:"mailer"`
		Metrics    MetricsConfig    `yaml:"metrics"`
		Tracing    trace.Config     `yaml:"tracing"`
		Booking    BookingConfig    `yaml:"booking"`
		Cache      CacheConfig      `yaml:"cache"`
		Scheduler  SchedulerConfig  `yaml:"scheduler"`
	}

	// I18nConfig represents the internationalization configuration
	I18nConfig struct {
		Path string `yaml:"path"` // directory holding *.toml translation files
	}

	DatabaseConfig struct {
		Type     string `yaml:"type"`     // postgres, mysql, sqlite, sqlite3
		Host     string `yaml:"host"`     // localhost
		Port     int    `yaml:"port"`     // 3306 (for mysql), 5432 (for postgres)
		User     string `yaml:"user"`     // root (for mysql), postgres (for postgres)
		Password string `yaml:"password"` // password
		DBName   string `yaml:"dbname"`   // database name, or file path for sqlite
		SSLMode  string `yaml:"sslmode"`  // disable (for postgres)
		LogLevel string `yaml:"log_level"`
	}

	JWTConfig struct {
		SecretKey string        `yaml:"secret_key"`
		Duration  time.Duration `yaml:"duration"`
	}

	// MailerConfig points at the HTTP webhook that delivers voucher emails
	MailerConfig struct {
		Enabled  bool          `yaml:"enabled"`
		Endpoint string        `yaml:"endpoint"`
		Token    string        `yaml:"token"`
		From     string        `yaml:"from"`
		Subject  string        `yaml:"subject"` // text template rendered per voucher
		Timeout  time.Duration `yaml:"timeout"`
	}

	// BookingConfig holds booking workflow settings
	BookingConfig struct {
		ReferencePrefix string `yaml:"reference_prefix"`
		VoucherPrefix   string `yaml:"voucher_prefix"`
		DefaultCurrency string `yaml:"default_currency"`
		BulkLimit       int    `yaml:"bulk_limit"`
	}

	// SchedulerConfig controls the job that completes bookings after travel
	SchedulerConfig struct {
		Enabled    bool          `yaml:"enabled"`
		Interval   time.Duration `yaml:"interval"`
		BatchSize  int           `yaml:"batch_size"`
		MaxRetries int           `yaml:"max_retries"`
		BaseDelay  time.Duration `yaml:"base_delay"`
		MaxDelay   time.Duration `yaml:"max_delay"`
	}

	// CacheConfig controls the user profile cache
	CacheConfig struct {
		Enabled bool          `yaml:"enabled"`
		TTL     time.Duration `yaml:"ttl"`
	}
)

func (c *APIServerConfig) applyDefaults() {
	if c.Addr == "" {
		c.Addr = ":5234"
	}
	if c.JWT.Duration <= 0 {
		c.JWT.Duration = 24 * time.Hour
	}
	if c.Session.Type == "" {
		c.Session.Type = cnst.SessionStoreMemory
	}
	if c.Session.TTL <= 0 {
		c.Session.TTL = c.JWT.Duration
	}
	if c.Notifier.Type == "" {
		c.Notifier.Type = cnst.NotifierTypeNone
	}
	if c.Notifier.Redis.Stream == "" {
		c.Notifier.Redis.Stream = cnst.AppName + ":booking:events"
	}
	if c.Notifier.Redis.MaxLen <= 0 {
		c.Notifier.Redis.MaxLen = 10000
	}
	if c.Notifier.AMQP.Queue == "" {
		c.Notifier.AMQP.Queue = "booking.events"
	}
	if c.Redis.ClusterType == "" {
		c.Redis.ClusterType = cnst.RedisClusterTypeSingle
	}
	c.Redis.Addrs = utils.SplitByMultipleDelimiters(c.Redis.Addr, ",", ";")
	if c.Mailer.Timeout <= 0 {
		c.Mailer.Timeout = 10 * time.Second
	}
	if c.Mailer.Subject == "" {
		c.Mailer.Subject = "Your travel voucher {{ .Voucher.Reference }}"
	}
	if c.Booking.ReferencePrefix == "" {
		c.Booking.ReferencePrefix = "BK"
	}
	if c.Booking.VoucherPrefix == "" {
		c.Booking.VoucherPrefix = "VC"
	}
	if c.Booking.DefaultCurrency == "" {
		c.Booking.DefaultCurrency = "USD"
	}
	if c.Booking.BulkLimit <= 0 {
		c.Booking.BulkLimit = 200
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = 5 * time.Minute
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = cnst.AppName
	}
	if c.Scheduler.Interval <= 0 {
		c.Scheduler.Interval = time.Hour
	}
	if c.Scheduler.BatchSize <= 0 {
		c.Scheduler.BatchSize = c.Booking.BulkLimit
	}
	if c.I18n.Path == "" {
		c.I18n.Path = "configs/i18n"
	}
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	switch c.Type {
	case cnst.DatabaseTypePostgres:
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
	case cnst.DatabaseTypeMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.User, c.Password, c.Host, c.Port, c.DBName)
	case cnst.DatabaseTypeSQLite, cnst.DatabaseTypeSQLite3:
		if c.DBName != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(c.DBName), 0755); err != nil {
				panic(fmt.Errorf("failed to create directory for sqlite database: %w", err))
			}
		}
		return c.DBName
	default:
		return ""
	}
}
