package config

import (
	"os"
	"regexp"
	"time"

	"github.com/amoylab/tourdesk/pkg/helper"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type (
	// SuperAdminConfig is the account created by the seed command
	SuperAdminConfig struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Email    string `yaml:"email"`
	}

	// LoggerConfig represents the logger configuration
	LoggerConfig struct {
		Level      string `yaml:"level"`       // debug, info, warn, error
		Format     string `yaml:"format"`      // json, console
		Output     string `yaml:"output"`      // stdout, file
		FilePath   string `yaml:"file_path"`   // path to log file when output is file
		MaxSize    int    `yaml:"max_size"`    // max size of log file in MB
		MaxBackups int    `yaml:"max_backups"` // max number of backup files
		MaxAge     int    `yaml:"max_age"`     // max age of backup files in days
		Compress   bool   `yaml:"compress"`
		Color      bool   `yaml:"color"` // console output only
		Stacktrace bool   `yaml:"stacktrace"`
		TimeZone   string `yaml:"time_zone"`   // e.g. "UTC", defaults to Local
		TimeFormat string `yaml:"time_format"` // defaults to "2006-01-02 15:04:05"
	}

	// RedisConfig is shared by every Redis-backed component
	RedisConfig struct {
		ClusterType string   `yaml:"cluster_type"` // single, sentinel, cluster
		Addr        string   `yaml:"addr"`         // comma separated for sentinel/cluster
		MasterName  string   `yaml:"master_name"`  // sentinel only
		Username    string   `yaml:"username"`
		Password    string   `yaml:"password"`
		DB          int      `yaml:"db"`
		Prefix      string   `yaml:"prefix"`
		Addrs       []string `yaml:"-"`
	}

	// SessionConfig controls where session-scoped overrides live
	SessionConfig struct {
		Type string        `yaml:"type"` // memory or redis
		TTL  time.Duration `yaml:"ttl"`
	}

	// MetricsConfig configures the prometheus registry
	MetricsConfig struct {
		Enabled   bool      `yaml:"enabled"`
		Path      string    `yaml:"path"`
		Namespace string    `yaml:"namespace"`
		Buckets   []float64 `yaml:"buckets"`
	}
)

type Type interface {
	APIServerConfig
}

var envPattern = regexp.MustCompile(`\$\{(\w+)(?::([^}]*))?\}`)

// LoadConfig loads configuration from a YAML file with environment variable support.
// It returns the parsed configuration together with the resolved file path.
func LoadConfig[T Type](filename string) (*T, string, error) {
	_ = godotenv.Load()

	cfgPath := helper.GetCfgPath(filename)
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return nil, cfgPath, err
	}

	var cfg T
	if err := yaml.Unmarshal(resolveEnv(data), &cfg); err != nil {
		return nil, cfgPath, err
	}

	if apiCfg, ok := any(&cfg).(*APIServerConfig); ok {
		apiCfg.applyDefaults()
	}
	return &cfg, cfgPath, nil
}

// resolveEnv replaces ${KEY} and ${KEY:default} placeholders
func resolveEnv(content []byte) []byte {
	return envPattern.ReplaceAllFunc(content, func(match []byte) []byte {
		groups := envPattern.FindSubmatch(match)
		if value, ok := os.LookupEnv(string(groups[1])); ok {
			return []byte(value)
		}
		if len(groups) > 2 {
			return groups[2]
		}
		return nil
	})
}
