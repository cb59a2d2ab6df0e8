package checkin

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ReportExport struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	CheckInID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"check_in_id"`
	CheckIn    *CheckIn       `gorm:"constraint:OnDelete:CASCADE;foreignKey:CheckInID;references:ID" json:"-"`
	StorageKey string         `gorm:"not null;column:storage_key" json:"storage_key"`
	URL        string         `gorm:"column:url" json:"url"`
	ShareToken string         `gorm:"column:share_token" json:"share_token"`
	Summary    datatypes.JSON `gorm:"type:jsonb;column:summary" json:"summary"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ReportExport) TableName() string { return "report_export" }
