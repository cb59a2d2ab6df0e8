package testutil

import (
	"sync"
	"testing"

	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/mindtrack-backend/internal/data/db"
	"github.com/yungbote/mindtrack-backend/internal/platform/logger"
)

var (
	dbOnce   sync.Once
	sharedDB *gorm.DB
	dbErr    error

	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB returns a package-wide in-memory database. Pair it with Tx so that
// every test rolls back its own writes.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dbOnce.Do(func() {
		sharedDB, dbErr = open(Logger(tb))
	})
	if dbErr != nil {
		tb.Fatalf("failed to init test db: %v", dbErr)
	}
	return sharedDB
}

// FreshDB returns a private in-memory database for tests that commit
// their own transactions.
func FreshDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	gdb, err := open(Logger(tb))
	if err != nil {
		tb.Fatalf("failed to init test db: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func open(log *logger.Logger) (*gorm.DB, error) {
	svc, err := db.NewSQLiteService(log, ":memory:")
	if err != nil {
		return nil, err
	}
	gdb := svc.DB().Session(&gorm.Session{Logger: gormLogger.Default.LogMode(gormLogger.Silent)})
	if err := db.AutoMigrateAll(gdb); err != nil {
		return nil, err
	}
	if err := db.EnsureReportIndexes(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}

func Tx(tb testing.TB, gdb *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := gdb.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}
