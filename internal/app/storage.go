package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/yungbote/mindtrack-backend/internal/platform/gcp"
	"github.com/yungbote/mindtrack-backend/internal/platform/logger"
)

var newReportBucket = gcp.NewReportBucket

type StorageBootstrapErrorCode string

const (
	StorageBootstrapErrorInvalidConfig StorageBootstrapErrorCode = "invalid_config"
	StorageBootstrapErrorConnectFailed StorageBootstrapErrorCode = "connect_failed"
)

type StorageBootstrapError struct {
	Code   StorageBootstrapErrorCode
	Mode   gcp.ObjectStorageMode
	Bucket string
	Cause  error
}

func (e *StorageBootstrapError) Error() string {
	if e == nil {
		return "report storage bootstrap failed"
	}
	return fmt.Sprintf("report storage bootstrap failed (code=%s mode=%q bucket=%q): %v", e.Code, e.Mode, e.Bucket, e.Cause)
}

func (e *StorageBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// resolveReportBucket returns nil without error when no bucket is
// configured; report export then answers 503 while downloads keep working.
func resolveReportBucket(ctx context.Context, log *logger.Logger, cfg gcp.ReportStorageConfig) (gcp.ReportBucket, error) {
	if !cfg.Enabled() {
		log.Warn("REPORT_GCS_BUCKET_NAME not set; report export disabled")
		return nil, nil
	}
	log.Info("Selecting report storage", "mode", cfg.Mode, "bucket", cfg.Bucket, "emulator_host", cfg.EmulatorHost)

	bucket, err := newReportBucket(ctx, log, cfg)
	if err != nil {
		classified := &StorageBootstrapError{
			Code:   StorageBootstrapErrorConnectFailed,
			Mode:   cfg.Mode,
			Bucket: cfg.Bucket,
			Cause:  err,
		}
		var cfgErr *gcp.StorageConfigError
		if errors.As(err, &cfgErr) {
			classified.Code = StorageBootstrapErrorInvalidConfig
		}
		log.Error("Report storage bootstrap failed", "mode", cfg.Mode, "error_code", classified.Code, "error", err)
		return nil, classified
	}
	return bucket, nil
}
