package database

import (
	"fmt"

	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/amoylab/tourdesk/internal/common/config"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDatabase creates a new database based on configuration
func NewDatabase(logger *zap.Logger, cfg *config.DatabaseConfig) (Database, error) {
	var dialector gorm.Dialector
	switch cfg.Type {
	case cnst.DatabaseTypePostgres:
		dialector = postgresDialector(cfg)
	case cnst.DatabaseTypeMySQL:
		dialector = mysqlDialector(cfg)
	case cnst.DatabaseTypeSQLite:
		dialector = sqliteDialector(cfg)
	case cnst.DatabaseTypeSQLite3:
		dialector = sqlite3Dialector(cfg)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
	store, err := Open(logger, dialector, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if cfg.DBName == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		if sqlDB, err := store.db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}
	return store, nil
}

// Open opens a gorm connection with the given dialector and migrates the
// schema
func Open(logger *zap.Logger, dialector gorm.Dialector, logLevel string) (*Store, error) {
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormLogLevel(logLevel)),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := Migrate(gormDB); err != nil {
		return nil, err
	}

	return &Store{db: gormDB, logger: logger.Named("database")}, nil
}

// Migrate creates or updates every table
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "info":
		return gormlogger.Info
	case "warn":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Silent
	}
}
