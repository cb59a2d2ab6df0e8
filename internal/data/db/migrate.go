package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/mindtrack-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(types.Models()...)
}

// EnsureReportIndexes adds lookups gorm tags cannot express portably.
func EnsureReportIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_report_export_check_in_created
		ON report_export (check_in_id, created_at);
	`).Error; err != nil {
		return fmt.Errorf("create idx_report_export_check_in_created: %w", err)
	}
	return nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...", "driver", s.driver)
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureReportIndexes(s.db); err != nil {
		s.log.Error("Report index migration failed", "error", err)
		return err
	}
	return nil
}
