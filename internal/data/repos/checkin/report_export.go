package checkin

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mindtrack-backend/internal/domain"
	pkgerrors "github.com/yungbote/mindtrack-backend/internal/pkg/errors"
	"github.com/yungbote/mindtrack-backend/internal/platform/dbctx"
	"github.com/yungbote/mindtrack-backend/internal/platform/logger"
)

type ReportExportRepo interface {
	Create(dbc dbctx.Context, exports []*types.ReportExport) ([]*types.ReportExport, error)
	GetByID(dbc dbctx.Context, userID, exportID uuid.UUID) (*types.ReportExport, error)
	ListByCheckIn(dbc dbctx.Context, userID, checkInID uuid.UUID) ([]*types.ReportExport, error)
}

type reportExportRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReportExportRepo(db *gorm.DB, baseLog *logger.Logger) ReportExportRepo {
	repoLog := baseLog.With("repo", "ReportExportRepo")
	return &reportExportRepo{db: db, log: repoLog}
}

func (r *reportExportRepo) conn(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *reportExportRepo) Create(dbc dbctx.Context, exports []*types.ReportExport) ([]*types.ReportExport, error) {
	if len(exports) == 0 {
		return []*types.ReportExport{}, nil
	}
	for _, e := range exports {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
	}
	if err := r.conn(dbc).Create(&exports).Error; err != nil {
		return nil, err
	}
	return exports, nil
}

func (r *reportExportRepo) GetByID(dbc dbctx.Context, userID, exportID uuid.UUID) (*types.ReportExport, error) {
	var row types.ReportExport
	err := r.conn(dbc).
		Where("id = ? AND user_id = ?", exportID, userID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("report export %s: %w", exportID, pkgerrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListByCheckIn returns exports oldest first.
func (r *reportExportRepo) ListByCheckIn(dbc dbctx.Context, userID, checkInID uuid.UUID) ([]*types.ReportExport, error) {
	var results []*types.ReportExport
	if err := r.conn(dbc).
		Where("user_id = ? AND check_in_id = ?", userID, checkInID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
