package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/mindtrack-backend/internal/cache"
	"github.com/yungbote/mindtrack-backend/internal/data/db"
	"github.com/yungbote/mindtrack-backend/internal/http"
	"github.com/yungbote/mindtrack-backend/internal/observability"
	"github.com/yungbote/mindtrack-backend/internal/platform/logger"
	"github.com/yungbote/mindtrack-backend/internal/report"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *http.Server
	Cfg      Config
	Repos    Repos
	Services Services

	dbService    *db.Service
	cache        cache.InsightCache
	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading configuration...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load config: %w", err)
	}

	a := &App{Log: log, Cfg: cfg}
	a.otelShutdown = observability.InitOTel(ctx, log, observability.OtelConfig{ServiceName: cfg.ServiceName})

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.Init()
	}

	if err := a.openDB(); err != nil {
		a.Close()
		return nil, err
	}

	a.cache = cache.NewNoop()
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, log, cfg.RedisAddr, cfg.InsightCacheTTL)
		if err != nil {
			// The cache is an optimisation; run without it.
			log.Warn("Insight cache unavailable, continuing without it", "error", err)
		} else {
			a.cache = rc
		}
	}

	bucket, err := resolveReportBucket(ctx, log, cfg.ReportStorage)
	if err != nil {
		a.Close()
		return nil, err
	}
	renderer, err := report.NewRenderer()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init report renderer: %w", err)
	}

	a.Repos = wireRepos(a.DB, log)
	a.Services = wireServices(a.DB, log, cfg, a.Repos, deps{
		cache:    a.cache,
		bucket:   bucket,
		renderer: renderer,
		metrics:  metrics,
	})
	handlers := wireHandlers(log, a.Services)
	middleware := wireMiddleware(log, a.Services)
	a.Server = wireServer(log, cfg, handlers, middleware, metrics)
	return a, nil
}

func (a *App) openDB() error {
	var (
		svc *db.Service
		err error
	)
	switch a.Cfg.DBDriver {
	case db.DriverSQLite:
		svc, err = db.NewSQLiteService(a.Log, a.Cfg.SQLitePath)
	default:
		svc, err = db.NewPostgresService(a.Log, a.Cfg.Postgres)
	}
	if err != nil {
		return fmt.Errorf("init %s: %w", a.Cfg.DBDriver, err)
	}
	if err := svc.AutoMigrateAll(); err != nil {
		_ = svc.Close()
		return fmt.Errorf("%s automigrate: %w", a.Cfg.DBDriver, err)
	}
	a.dbService = svc
	a.DB = svc.DB()
	return nil
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("Server listening", "addr", addr)
		errCh <- a.Server.Run(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.Log.Warn("Close insight cache", "error", err)
		}
	}
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("Close database", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("Shutdown tracing", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
