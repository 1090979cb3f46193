package database

import (
	"github.com/amoylab/tourdesk/internal/common/config"

	"github.com/glebarez/sqlite"
	sqlite3 "gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// sqliteDialector is the pure Go driver used by default and in tests
func sqliteDialector(cfg *config.DatabaseConfig) gorm.Dialector {
	return sqlite.Open(cfg.GetDSN())
}

// sqlite3Dialector uses the cgo driver
func sqlite3Dialector(cfg *config.DatabaseConfig) gorm.Dialector {
	return sqlite3.Open(cfg.GetDSN())
}
