package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mindtrack-backend/internal/data/repos"
	types "github.com/yungbote/mindtrack-backend/internal/domain"
	"github.com/yungbote/mindtrack-backend/internal/domain/checkin"
	"github.com/yungbote/mindtrack-backend/internal/observability"
	"github.com/yungbote/mindtrack-backend/internal/platform/dbctx"
	"github.com/yungbote/mindtrack-backend/internal/platform/logger"
	"github.com/yungbote/mindtrack-backend/internal/wellness"
)

// SubmitResult is a freshly stored check-in with the insights derived for it.
type SubmitResult struct {
	CheckIn  *types.CheckIn     `json:"check_in"`
	Insights *wellness.Insights `json:"insights"`
}

type CheckInService interface {
	Submit(ctx context.Context, raw wellness.RawCheckIn) (*SubmitResult, error)
	List(ctx context.Context, limit int) ([]*types.CheckIn, error)
	Get(ctx context.Context, checkInID uuid.UUID) (*types.CheckIn, error)
}

type checkInService struct {
	db           *gorm.DB
	log          *logger.Logger
	checkInRepo  repos.CheckInRepo
	historyLimit int
	metrics      *observability.Metrics
	now          func() time.Time
}

func NewCheckInService(
	db *gorm.DB,
	log *logger.Logger,
	checkInRepo repos.CheckInRepo,
	historyLimit int,
	metrics *observability.Metrics,
) CheckInService {
	return &checkInService{
		db:           db,
		log:          log.With("service", "CheckInService"),
		checkInRepo:  checkInRepo,
		historyLimit: ClampLimit(historyLimit, DefaultHistoryLimit, MaxHistoryLimit),
		metrics:      metrics,
		now:          time.Now,
	}
}

// Submit validates raw, persists it for the caller and derives insights
// against the caller's prior check-ins. Nothing is stored on validation
// failure.
func (s *checkInService) Submit(ctx context.Context, raw wellness.RawCheckIn) (*SubmitResult, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}
	ctx, span := observability.StartSpan(ctx, "checkin.submit")
	defer span.End()

	if raw.Timestamp == nil || raw.Timestamp == "" {
		raw.Timestamp = s.now().UTC()
	}
	// Ids are assigned by the server.
	raw.ID = ""
	n, err := wellness.Normalize(raw)
	if err != nil {
		s.metrics.IncValidationFailure(validationField(err))
		return nil, err
	}

	row := checkin.FromNormalized(userID, n)
	var prior []*types.CheckIn
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := s.checkInRepo.Create(dbc, []*types.CheckIn{row}); err != nil {
			return fmt.Errorf("create check-in: %w", err)
		}
		prior, err = s.checkInRepo.ListBefore(dbc, userID, row.CompletedAt, row.ID, s.historyLimit)
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Error("Submit check-in failed", "user_id", userID.String(), "error", err)
		return nil, err
	}
	s.metrics.IncCheckIn()

	n.ID = row.ID.String()
	history, err := normalizeRows(prior)
	if err != nil {
		return nil, err
	}
	in := wellness.Derive(n, history)
	s.metrics.ObserveInsights(in)
	s.log.Info("Check-in stored", "user_id", userID.String(), "check_in_id", row.ID.String(), "band", string(in.Band))
	return &SubmitResult{CheckIn: row, Insights: in}, nil
}

func (s *checkInService) List(ctx context.Context, limit int) ([]*types.CheckIn, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}
	limit = ClampLimit(limit, s.historyLimit, MaxHistoryLimit)
	return s.checkInRepo.ListByUser(dbctx.Context{Ctx: ctx}, userID, limit)
}

func (s *checkInService) Get(ctx context.Context, checkInID uuid.UUID) (*types.CheckIn, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}
	return s.checkInRepo.GetByID(dbctx.Context{Ctx: ctx}, userID, checkInID)
}

func validationField(err error) string {
	var rangeErr *wellness.OutOfRangeError
	if errors.As(err, &rangeErr) {
		return rangeErr.Field
	}
	return "timestamp"
}

// normalizeRows re-validates stored rows. Stored rows were validated on
// write, so a failure here means the table was edited out of band.
func normalizeRows(rows []*types.CheckIn) ([]wellness.NormalizedCheckIn, error) {
	raws := make([]wellness.RawCheckIn, 0, len(rows))
	for _, r := range rows {
		raws = append(raws, r.Raw())
	}
	out, err := wellness.NormalizeAll(raws)
	if err != nil {
		return nil, fmt.Errorf("stored check-in failed validation: %w", err)
	}
	return out, nil
}
