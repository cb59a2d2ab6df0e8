package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	pkgerrors "github.com/yungbote/mindtrack-backend/internal/pkg/errors"
	"github.com/yungbote/mindtrack-backend/internal/platform/dbctx"
	"github.com/yungbote/mindtrack-backend/internal/platform/logger"
)

const objectTimeout = 2 * time.Minute

// ReportBucket stores rendered wellness report images.
type ReportBucket interface {
	Upload(dbc dbctx.Context, key string, file io.Reader) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

type reportBucket struct {
	log           *logger.Logger
	client        *storage.Client
	cfg           ReportStorageConfig
	emulatorHost  string
	publicBaseURL string
}

func NewReportBucket(ctx context.Context, log *logger.Logger, cfg ReportStorageConfig) (ReportBucket, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("report bucket name is empty")
	}
	if err := ValidateReportStorageConfig(cfg); err != nil {
		return nil, fmt.Errorf("validate report storage config: %w", err)
	}
	serviceLog := log.With("service", "ReportBucket")

	client, err := newStorageClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	emulatorHost := strings.TrimRight(strings.TrimSpace(cfg.EmulatorHost), "/")
	publicBase := strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/")
	if publicBase == "" && cfg.IsEmulatorMode() {
		publicBase = emulatorHost
	}

	serviceLog.Info(
		"Report storage initialized",
		"mode", cfg.Mode,
		"bucket", cfg.Bucket,
		"emulator_host", emulatorHost,
		"public_base_url", publicBase,
	)

	return &reportBucket{
		log:           serviceLog,
		client:        client,
		cfg:           cfg,
		emulatorHost:  emulatorHost,
		publicBaseURL: publicBase,
	}, nil
}

func newStorageClient(ctx context.Context, cfg ReportStorageConfig) (*storage.Client, error) {
	if cfg.IsEmulatorMode() {
		_ = os.Setenv("STORAGE_EMULATOR_HOST", strings.TrimRight(strings.TrimSpace(cfg.EmulatorHost), "/"))
		return storage.NewClient(ctx, option.WithoutAuthentication())
	}
	opts := ClientOptionsFromEnv()
	opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	return storage.NewClient(ctx, opts...)
}

func (b *reportBucket) Upload(dbc dbctx.Context, key string, file io.Reader) error {
	ctx, cancel := context.WithTimeout(dbc.Ctx, objectTimeout)
	defer cancel()

	w := b.client.Bucket(b.cfg.Bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentTypeForKey(key)
	w.CacheControl = "private, max-age=0"
	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	b.log.Debug("Report uploaded", "key", key)
	return nil
}

func contentTypeForKey(key string) string {
	switch {
	case strings.HasSuffix(strings.ToLower(key), ".png"):
		return "image/png"
	case strings.HasSuffix(strings.ToLower(key), ".json"):
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

func (b *reportBucket) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, objectTimeout)
	defer cancel()
	err := b.client.Bucket(b.cfg.Bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete object %q: %w", key, err)
	}
	return nil
}

func (b *reportBucket) PublicURL(key string) string {
	return reportPublicURL(b.cfg, b.publicBaseURL, key)
}

func reportPublicURL(cfg ReportStorageConfig, publicBase, key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if cfg.CDNDomain != "" {
		return fmt.Sprintf("https://%s/%s", cfg.CDNDomain, key)
	}
	if cfg.IsEmulatorMode() && publicBase != "" {
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", publicBase, url.PathEscape(cfg.Bucket), url.PathEscape(key))
	}
	if publicBase != "" {
		return fmt.Sprintf("%s/%s/%s", publicBase, cfg.Bucket, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", cfg.Bucket, key)
}

// readCloserWithCancel keeps the download context alive until the caller
// closes the body.
type readCloserWithCancel struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (r *readCloserWithCancel) Close() error {
	err := r.ReadCloser.Close()
	if r.cancel != nil {
		r.cancel()
	}
	return err
}

func (b *reportBucket) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	ctx2, cancel := context.WithTimeout(ctx, objectTimeout)
	if b.cfg.IsEmulatorMode() {
		mediaURL := fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", b.emulatorHost, url.PathEscape(b.cfg.Bucket), url.PathEscape(key))
		req, err := http.NewRequestWithContext(ctx2, http.MethodGet, mediaURL, nil)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed creating emulator download request: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed emulator download request: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			_ = resp.Body.Close()
			cancel()
			if resp.StatusCode == http.StatusNotFound {
				return nil, fmt.Errorf("report object %q: %w", key, pkgerrors.ErrNotFound)
			}
			return nil, fmt.Errorf("emulator download failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return &readCloserWithCancel{ReadCloser: resp.Body, cancel: cancel}, nil
	}

	r, err := b.client.Bucket(b.cfg.Bucket).Object(key).NewReader(ctx2)
	if err != nil {
		cancel()
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("report object %q: %w", key, pkgerrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to open GCS reader: %w", err)
	}
	return &readCloserWithCancel{ReadCloser: r, cancel: cancel}, nil
}
