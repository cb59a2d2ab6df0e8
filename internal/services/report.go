package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/mindtrack-backend/internal/data/repos"
	types "github.com/yungbote/mindtrack-backend/internal/domain"
	"github.com/yungbote/mindtrack-backend/internal/observability"
	pkgerrors "github.com/yungbote/mindtrack-backend/internal/pkg/errors"
	"github.com/yungbote/mindtrack-backend/internal/platform/dbctx"
	"github.com/yungbote/mindtrack-backend/internal/platform/gcp"
	"github.com/yungbote/mindtrack-backend/internal/platform/logger"
	"github.com/yungbote/mindtrack-backend/internal/report"
)

// ExportResult points at an uploaded report and its public share link.
type ExportResult struct {
	ExportID uuid.UUID `json:"export_id"`
	URL      string    `json:"url"`
	ShareURL string    `json:"share_url"`
}

type ReportService interface {
	Export(ctx context.Context, checkInID uuid.UUID) (*ExportResult, error)
	RenderPNG(ctx context.Context, checkInID uuid.UUID) ([]byte, string, error)
	Stored(ctx context.Context, exportID uuid.UUID) (io.ReadCloser, string, error)
	Shared(ctx context.Context, token string) (report.SharePayload, error)
}

type reportService struct {
	db               *gorm.DB
	log              *logger.Logger
	userRepo         repos.UserRepo
	checkInRepo      repos.CheckInRepo
	reportExportRepo repos.ReportExportRepo
	insights         InsightService
	renderer         *report.Renderer
	// bucket is nil when report storage is not configured.
	bucket       gcp.ReportBucket
	shares       *report.ShareSigner
	shareBaseURL string
	metrics      *observability.Metrics
	now          func() time.Time
}

func NewReportService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	checkInRepo repos.CheckInRepo,
	reportExportRepo repos.ReportExportRepo,
	insights InsightService,
	renderer *report.Renderer,
	bucket gcp.ReportBucket,
	shares *report.ShareSigner,
	shareBaseURL string,
	metrics *observability.Metrics,
) ReportService {
	return &reportService{
		db:               db,
		log:              log.With("service", "ReportService"),
		userRepo:         userRepo,
		checkInRepo:      checkInRepo,
		reportExportRepo: reportExportRepo,
		insights:         insights,
		renderer:         renderer,
		bucket:           bucket,
		shares:           shares,
		shareBaseURL:     shareBaseURL,
		metrics:          metrics,
		now:              time.Now,
	}
}

type renderedReport struct {
	row     *types.CheckIn
	png     []byte
	payload report.SharePayload
	at      time.Time
}

func (s *reportService) render(ctx context.Context, checkInID uuid.UUID) (*renderedReport, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	row, err := s.checkInRepo.GetByID(dbc, userID, checkInID)
	if err != nil {
		return nil, err
	}
	n, in, err := s.insights.Evaluate(ctx, row)
	if err != nil {
		return nil, err
	}

	loc := time.UTC
	if users, err := s.userRepo.GetByIDs(dbc, []uuid.UUID{userID}); err == nil && len(users) > 0 && users[0].Timezone != "" {
		if l, err := time.LoadLocation(users[0].Timezone); err == nil {
			loc = l
		}
	}

	_, span := observability.StartSpan(ctx, "report.render")
	defer span.End()
	at := s.now()
	start := time.Now()
	png, err := s.renderer.Render(report.Report{
		CheckIn:     n,
		Insights:    in,
		GeneratedAt: at,
		Location:    loc,
	})
	if err != nil {
		s.metrics.ObserveReportExport("render_failed", 0)
		return nil, fmt.Errorf("render report: %w", err)
	}
	s.metrics.ObserveReportExport("rendered", time.Since(start))
	return &renderedReport{
		row:     row,
		png:     png,
		payload: report.NewSharePayload(in, row.CompletedAt),
		at:      at,
	}, nil
}

func (s *reportService) RenderPNG(ctx context.Context, checkInID uuid.UUID) ([]byte, string, error) {
	r, err := s.render(ctx, checkInID)
	if err != nil {
		return nil, "", err
	}
	return r.png, report.FileName(r.at), nil
}

// Export uploads the rendered report and records it. The uploaded object
// is removed again if the row cannot be written.
func (s *reportService) Export(ctx context.Context, checkInID uuid.UUID) (*ExportResult, error) {
	if s.bucket == nil {
		return nil, fmt.Errorf("report storage is not configured: %w", pkgerrors.ErrUnavailable)
	}
	r, err := s.render(ctx, checkInID)
	if err != nil {
		return nil, err
	}
	token, err := s.shares.Encode(r.payload)
	if err != nil {
		return nil, fmt.Errorf("encode share token: %w", err)
	}
	summary, err := json.Marshal(r.payload)
	if err != nil {
		return nil, fmt.Errorf("marshal summary: %w", err)
	}

	key := fmt.Sprintf("reports/%s/%s/%d.png", r.row.UserID, r.row.ID, r.at.UTC().UnixNano())
	if err := s.bucket.Upload(dbctx.Context{Ctx: ctx}, key, bytes.NewReader(r.png)); err != nil {
		s.metrics.ObserveReportExport("upload_failed", 0)
		return nil, fmt.Errorf("upload report: %w", err)
	}

	export := &types.ReportExport{
		ID:         uuid.New(),
		UserID:     r.row.UserID,
		CheckInID:  r.row.ID,
		StorageKey: key,
		URL:        s.bucket.PublicURL(key),
		ShareToken: token,
		Summary:    datatypes.JSON(summary),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := s.reportExportRepo.Create(dbctx.Context{Ctx: ctx, Tx: tx}, []*types.ReportExport{export})
		return err
	})
	if err != nil {
		if delErr := s.bucket.Delete(ctx, key); delErr != nil {
			s.log.Warn("Failed to remove orphaned report", "storage_key", key, "error", delErr)
		}
		s.metrics.ObserveReportExport("persist_failed", 0)
		return nil, fmt.Errorf("create report export: %w", err)
	}
	s.metrics.ObserveReportExport("exported", 0)
	s.log.Info("Report exported", "user_id", r.row.UserID.String(), "export_id", export.ID.String())

	return &ExportResult{
		ExportID: export.ID,
		URL:      export.URL,
		ShareURL: report.ShareURL(s.shareBaseURL, token),
	}, nil
}

// Stored streams a previously exported report back from storage. The
// filename carries the export date.
func (s *reportService) Stored(ctx context.Context, exportID uuid.UUID) (io.ReadCloser, string, error) {
	if s.bucket == nil {
		return nil, "", fmt.Errorf("report storage is not configured: %w", pkgerrors.ErrUnavailable)
	}
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, "", err
	}
	export, err := s.reportExportRepo.GetByID(dbctx.Context{Ctx: ctx}, userID, exportID)
	if err != nil {
		return nil, "", err
	}
	body, err := s.bucket.Download(ctx, export.StorageKey)
	if err != nil {
		return nil, "", fmt.Errorf("download report: %w", err)
	}
	return body, report.FileName(export.CreatedAt), nil
}

func (s *reportService) Shared(ctx context.Context, token string) (report.SharePayload, error) {
	return s.shares.Decode(token)
}
