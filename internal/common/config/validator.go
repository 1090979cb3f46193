package config

import (
	"fmt"
	"strings"

	"github.com/amoylab/tourdesk/internal/common/cnst"
)

// MinJWTSecretLength is the shortest accepted JWT signing secret
const MinJWTSecretLength = 32

// ValidationError collects every problem found in a configuration file
type ValidationError struct {
	File     string
	Problems []string
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid configuration")
	if e.File != "" {
		sb.WriteString(" --> ")
		sb.WriteString(e.File)
	}
	for _, p := range e.Problems {
		sb.WriteString("\n  - ")
		sb.WriteString(p)
	}
	return sb.String()
}

// ValidateAPIServerConfig checks the apiserver configuration and reports all
// problems at once
func ValidateAPIServerConfig(cfg *APIServerConfig, file string) error {
	var problems []string

	switch cfg.Database.Type {
	case cnst.DatabaseTypePostgres, cnst.DatabaseTypeMySQL:
		if cfg.Database.Host == "" || cfg.Database.DBName == "" {
			problems = append(problems, fmt.Sprintf("database %s requires host and dbname", cfg.Database.Type))
		}
	case cnst.DatabaseTypeSQLite, cnst.DatabaseTypeSQLite3:
		if cfg.Database.DBName == "" {
			problems = append(problems, "database sqlite requires dbname (file path)")
		}
	default:
		problems = append(problems, fmt.Sprintf("unsupported database type %q", cfg.Database.Type))
	}

	if len(cfg.JWT.SecretKey) < MinJWTSecretLength {
		problems = append(problems, fmt.Sprintf("jwt.secret_key must be at least %d characters", MinJWTSecretLength))
	}

	needsRedis := cfg.Session.Type == cnst.SessionStoreRedis || cfg.Cache.Enabled
	switch cfg.Session.Type {
	case cnst.SessionStoreMemory, cnst.SessionStoreRedis:
	default:
		problems = append(problems, fmt.Sprintf("unsupported session type %q", cfg.Session.Type))
	}

	switch cfg.Notifier.Type {
	case cnst.NotifierTypeNone:
	case cnst.NotifierTypeRedis:
		needsRedis = true
	case cnst.NotifierTypeAMQP:
		if cfg.Notifier.AMQP.URL == "" {
			problems = append(problems, "notifier.amqp.url is required for amqp notifier")
		}
	case cnst.NotifierTypeComposite:
		needsRedis = true
		if cfg.Notifier.AMQP.URL == "" {
			problems = append(problems, "notifier.amqp.url is required for composite notifier")
		}
	default:
		problems = append(problems, fmt.Sprintf("unsupported notifier type %q", cfg.Notifier.Type))
	}

	if needsRedis && len(cfg.Redis.Addrs) == 0 {
		problems = append(problems, "redis.addr is required by the configured session, cache or notifier")
	}
	if cfg.Mailer.Enabled && cfg.Mailer.Endpoint == "" {
		problems = append(problems, "mailer.endpoint is required when mailer is enabled")
	}

	if len(problems) > 0 {
		return &ValidationError{File: file, Problems: problems}
	}
	return nil
}
