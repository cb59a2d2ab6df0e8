package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mindtrack-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedCheckIn stores a check-in with the given axes completed at `at`.
func SeedCheckIn(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, at time.Time, mood, stress, sleep, energy, social int) *types.CheckIn {
	tb.Helper()
	c := &types.CheckIn{
		ID:               uuid.New(),
		UserID:           userID,
		Mood:             mood,
		Stress:           stress,
		SleepQuality:     sleep,
		Energy:           energy,
		SocialConnection: social,
		CompletedAt:      at.UTC(),
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed check-in: %v", err)
	}
	return c
}
