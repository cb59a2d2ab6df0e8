package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/mindtrack-backend/internal/cache"
	"github.com/yungbote/mindtrack-backend/internal/data/repos"
	types "github.com/yungbote/mindtrack-backend/internal/domain"
	"github.com/yungbote/mindtrack-backend/internal/observability"
	"github.com/yungbote/mindtrack-backend/internal/platform/dbctx"
	"github.com/yungbote/mindtrack-backend/internal/platform/logger"
	"github.com/yungbote/mindtrack-backend/internal/wellness"
)

const historyWorkers = 4

// HistoryPoint is one entry of the score history chart.
type HistoryPoint struct {
	ID        uuid.UUID     `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Score     int           `json:"score"`
	Band      wellness.Band `json:"band"`
}

type InsightService interface {
	ForCheckIn(ctx context.Context, checkInID uuid.UUID) (*wellness.Insights, error)
	Latest(ctx context.Context) (*wellness.Insights, error)
	History(ctx context.Context, limit int) ([]HistoryPoint, error)
	// Evaluate derives insights for a stored row against its owner's history.
	Evaluate(ctx context.Context, row *types.CheckIn) (wellness.NormalizedCheckIn, *wellness.Insights, error)
}

type insightService struct {
	db           *gorm.DB
	log          *logger.Logger
	checkInRepo  repos.CheckInRepo
	cache        cache.InsightCache
	historyLimit int
	metrics      *observability.Metrics
}

func NewInsightService(
	db *gorm.DB,
	log *logger.Logger,
	checkInRepo repos.CheckInRepo,
	insightCache cache.InsightCache,
	historyLimit int,
	metrics *observability.Metrics,
) InsightService {
	if insightCache == nil {
		insightCache = cache.NewNoop()
	}
	return &insightService{
		db:           db,
		log:          log.With("service", "InsightService"),
		checkInRepo:  checkInRepo,
		cache:        insightCache,
		historyLimit: ClampLimit(historyLimit, DefaultHistoryLimit, MaxHistoryLimit),
		metrics:      metrics,
	}
}

func (s *insightService) ForCheckIn(ctx context.Context, checkInID uuid.UUID) (*wellness.Insights, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}
	row, err := s.checkInRepo.GetByID(dbctx.Context{Ctx: ctx}, userID, checkInID)
	if err != nil {
		return nil, err
	}
	_, in, err := s.Evaluate(ctx, row)
	return in, err
}

func (s *insightService) Latest(ctx context.Context) (*wellness.Insights, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}
	row, err := s.checkInRepo.Latest(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, err
	}
	_, in, err := s.Evaluate(ctx, row)
	return in, err
}

func (s *insightService) Evaluate(ctx context.Context, row *types.CheckIn) (wellness.NormalizedCheckIn, *wellness.Insights, error) {
	if row == nil {
		return wellness.NormalizedCheckIn{}, nil, fmt.Errorf("check-in required")
	}
	prior, err := s.checkInRepo.ListBefore(dbctx.Context{Ctx: ctx}, row.UserID, row.CompletedAt, row.ID, s.historyLimit)
	if err != nil {
		return wellness.NormalizedCheckIn{}, nil, fmt.Errorf("load history: %w", err)
	}
	return s.derive(ctx, row, prior)
}

// derive serves from the cache when the same history window was seen
// before. Cache failures are logged and otherwise ignored.
func (s *insightService) derive(ctx context.Context, row *types.CheckIn, prior []*types.CheckIn) (wellness.NormalizedCheckIn, *wellness.Insights, error) {
	ctx, span := observability.StartSpan(ctx, "insights.derive",
		attribute.String("check_in_id", row.ID.String()),
		attribute.Int("history_len", len(prior)),
	)
	defer span.End()

	rows := append([]*types.CheckIn{row}, prior...)
	all, err := normalizeRows(rows)
	if err != nil {
		return wellness.NormalizedCheckIn{}, nil, err
	}
	current := all[0]

	key := cache.Key(row.ID.String(), historyEntries(prior))
	cached, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn("Insight cache get failed", "error", err)
	}
	s.metrics.ObserveCacheLookup(hit && cached != nil)
	if hit && cached != nil {
		return current, cached, nil
	}

	in := wellness.Derive(current, all[1:])
	s.metrics.ObserveInsights(in)
	if err := s.cache.Set(ctx, key, in); err != nil {
		s.log.Warn("Insight cache set failed", "error", err)
	}
	return current, in, nil
}

// History derives a score for each of the caller's newest check-ins. One
// query loads the rows and each row's window is cut from that slice.
func (s *insightService) History(ctx context.Context, limit int) ([]HistoryPoint, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}
	limit = ClampLimit(limit, s.historyLimit, MaxHistoryLimit)

	rows, err := s.checkInRepo.ListByUser(dbctx.Context{Ctx: ctx}, userID, limit+s.historyLimit)
	if err != nil {
		return nil, err
	}
	n := limit
	if len(rows) < n {
		n = len(rows)
	}
	out := make([]HistoryPoint, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(historyWorkers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			row := rows[i]
			_, in, err := s.derive(gctx, row, priorWindow(rows[i+1:], row.CompletedAt, s.historyLimit))
			if err != nil {
				return err
			}
			out[i] = HistoryPoint{
				ID:        row.ID,
				Timestamp: row.CompletedAt.UTC(),
				Score:     in.Score,
				Band:      in.Band,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// priorWindow takes up to limit rows completed strictly before t from a
// newest-first slice.
func priorWindow(older []*types.CheckIn, t time.Time, limit int) []*types.CheckIn {
	out := make([]*types.CheckIn, 0, limit)
	for _, r := range older {
		if len(out) == limit {
			break
		}
		if r.CompletedAt.Before(t) {
			out = append(out, r)
		}
	}
	return out
}

func historyEntries(rows []*types.CheckIn) []cache.HistoryEntry {
	out := make([]cache.HistoryEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, cache.HistoryEntry{ID: r.ID.String(), CompletedAt: r.CompletedAt})
	}
	return out
}
