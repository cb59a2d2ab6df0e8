package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/mindtrack-backend/internal/platform/logger"
)

// NewSQLiteService opens a single-file database. ":memory:" yields a
// private in-memory database.
func NewSQLiteService(logg *logger.Logger, path string) (*Service, error) {
	serviceLog := logg.With("service", "SQLiteService")

	path = strings.TrimSpace(path)
	if path == "" {
		path = "mindtrack.db"
	}
	db, err := gorm.Open(sqlite.Open(sqliteDSN(path)), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite at %q: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get SQLite handle: %w", err)
	}
	// SQLite serialises writers; one connection keeps in-memory databases shared.
	sqlDB.SetMaxOpenConns(1)

	serviceLog.Info("Opened SQLite database", "path", path)
	return &Service{db: db, log: serviceLog, driver: DriverSQLite}, nil
}

func sqliteDSN(path string) string {
	if path == ":memory:" {
		return "file::memory:?_foreign_keys=on"
	}
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_foreign_keys=on&_busy_timeout=5000"
}
