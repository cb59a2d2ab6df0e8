package checkin

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mindtrack-backend/internal/domain/user"
	"github.com/yungbote/mindtrack-backend/internal/wellness"
)

// CheckIn is a persisted, already-validated questionnaire submission.
// Axis columns hold the submitted values: stress and energy on 0-10, the
// rest on 1-5.
type CheckIn struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID  `gorm:"type:uuid;not null;index:idx_check_in_user_completed,priority:1" json:"user_id"`
	User             *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Mood             int        `gorm:"not null;column:mood" json:"mood"`
	Stress           int        `gorm:"not null;column:stress" json:"stress"`
	SleepQuality     int        `gorm:"not null;column:sleep_quality" json:"sleep"`
	Energy           int        `gorm:"not null;column:energy" json:"energy"`
	SocialConnection int        `gorm:"not null;column:social_connection" json:"social"`
	CompletedAt      time.Time  `gorm:"not null;column:completed_at;index:idx_check_in_user_completed,priority:2" json:"timestamp"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (CheckIn) TableName() string { return "check_in" }

// Raw converts the stored row back into the engine's input shape.
func (c *CheckIn) Raw() wellness.RawCheckIn {
	return wellness.RawCheckIn{
		ID:               c.ID.String(),
		Mood:             c.Mood,
		Stress:           c.Stress,
		SleepQuality:     c.SleepQuality,
		Energy:           c.Energy,
		SocialConnection: c.SocialConnection,
		Timestamp:        c.CompletedAt.UTC(),
	}
}

// FromNormalized builds a row for userID from a validated check-in.
func FromNormalized(userID uuid.UUID, n wellness.NormalizedCheckIn) *CheckIn {
	return &CheckIn{
		ID:               uuid.New(),
		UserID:           userID,
		Mood:             n.Mood,
		Stress:           n.Stress,
		SleepQuality:     n.SleepQuality,
		Energy:           n.Energy,
		SocialConnection: n.SocialConnection,
		CompletedAt:      n.Timestamp.UTC(),
	}
}
