package checkin

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mindtrack-backend/internal/domain"
	pkgerrors "github.com/yungbote/mindtrack-backend/internal/pkg/errors"
	"github.com/yungbote/mindtrack-backend/internal/platform/dbctx"
	"github.com/yungbote/mindtrack-backend/internal/platform/logger"
)

// CheckInRepo reads and appends check-ins. Rows are immutable once written,
// so there is no update path.
type CheckInRepo interface {
	Create(dbc dbctx.Context, checkIns []*types.CheckIn) ([]*types.CheckIn, error)
	GetByID(dbc dbctx.Context, userID, checkInID uuid.UUID) (*types.CheckIn, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.CheckIn, error)
	ListBefore(dbc dbctx.Context, userID uuid.UUID, before time.Time, excludeID uuid.UUID, limit int) ([]*types.CheckIn, error)
	Latest(dbc dbctx.Context, userID uuid.UUID) (*types.CheckIn, error)
	CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
}

type checkInRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCheckInRepo(db *gorm.DB, baseLog *logger.Logger) CheckInRepo {
	repoLog := baseLog.With("repo", "CheckInRepo")
	return &checkInRepo{db: db, log: repoLog}
}

func (r *checkInRepo) conn(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *checkInRepo) Create(dbc dbctx.Context, checkIns []*types.CheckIn) ([]*types.CheckIn, error) {
	if len(checkIns) == 0 {
		return []*types.CheckIn{}, nil
	}
	for _, c := range checkIns {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		c.CompletedAt = c.CompletedAt.UTC()
	}
	if err := r.conn(dbc).Create(&checkIns).Error; err != nil {
		return nil, err
	}
	return checkIns, nil
}

// GetByID scopes the lookup to userID; another user's check-in reads as
// not found.
func (r *checkInRepo) GetByID(dbc dbctx.Context, userID, checkInID uuid.UUID) (*types.CheckIn, error) {
	var row types.CheckIn
	err := r.conn(dbc).
		Where("id = ? AND user_id = ?", checkInID, userID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check-in %s: %w", checkInID, pkgerrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListByUser returns the newest check-ins first.
func (r *checkInRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.CheckIn, error) {
	var results []*types.CheckIn
	q := r.conn(dbc).
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListBefore returns check-ins completed strictly before `before`, newest
// first, skipping excludeID.
func (r *checkInRepo) ListBefore(dbc dbctx.Context, userID uuid.UUID, before time.Time, excludeID uuid.UUID, limit int) ([]*types.CheckIn, error) {
	var results []*types.CheckIn
	q := r.conn(dbc).
		Where("user_id = ? AND completed_at < ?", userID, before.UTC())
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	q = q.Order("completed_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *checkInRepo) Latest(dbc dbctx.Context, userID uuid.UUID) (*types.CheckIn, error) {
	rows, err := r.ListByUser(dbc, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no check-ins for user: %w", pkgerrors.ErrNotFound)
	}
	return rows[0], nil
}

func (r *checkInRepo) CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.conn(dbc).
		Model(&types.CheckIn{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
