package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/mindtrack-backend/internal/cache"
	"github.com/yungbote/mindtrack-backend/internal/data/repos"
	"github.com/yungbote/mindtrack-backend/internal/http"
	httpH "github.com/yungbote/mindtrack-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mindtrack-backend/internal/http/middleware"
	"github.com/yungbote/mindtrack-backend/internal/observability"
	"github.com/yungbote/mindtrack-backend/internal/platform/gcp"
	"github.com/yungbote/mindtrack-backend/internal/platform/logger"
	"github.com/yungbote/mindtrack-backend/internal/report"
	"github.com/yungbote/mindtrack-backend/internal/services"
)

type Repos struct {
	User         repos.UserRepo
	UserToken    repos.UserTokenRepo
	CheckIn      repos.CheckInRepo
	ReportExport repos.ReportExportRepo
}

type Services struct {
	Auth    services.AuthService
	User    services.UserService
	CheckIn services.CheckInService
	Insight services.InsightService
	Report  services.ReportService
}

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Auth     *httpH.AuthHandler
	User     *httpH.UserHandler
	CheckIn  *httpH.CheckInHandler
	Insight  *httpH.InsightHandler
	Report   *httpH.ReportHandler
	Resource *httpH.ResourceHandler
}

// deps are the process-level collaborators services are built on.
type deps struct {
	cache    cache.InsightCache
	bucket   gcp.ReportBucket
	renderer *report.Renderer
	metrics  *observability.Metrics
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:         repos.NewUserRepo(db, log),
		UserToken:    repos.NewUserTokenRepo(db, log),
		CheckIn:      repos.NewCheckInRepo(db, log),
		ReportExport: repos.NewReportExportRepo(db, log),
	}
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, d deps) Services {
	log.Info("Wiring services...")
	insight := services.NewInsightService(db, log, r.CheckIn, d.cache, cfg.HistoryLimit, d.metrics)
	return Services{
		Auth:    services.NewAuthService(db, log, r.User, r.UserToken, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		User:    services.NewUserService(db, log, r.User),
		CheckIn: services.NewCheckInService(db, log, r.CheckIn, cfg.HistoryLimit, d.metrics),
		Insight: insight,
		Report: services.NewReportService(db, log, r.User, r.CheckIn, r.ReportExport, insight,
			d.renderer, d.bucket, report.NewShareSigner(cfg.JWTSecretKey, cfg.ShareTokenTTL), cfg.ShareBaseURL, d.metrics),
	}
}

func wireMiddleware(log *logger.Logger, s Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, s.Auth),
	}
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(),
		Auth:     httpH.NewAuthHandler(s.Auth),
		User:     httpH.NewUserHandler(s.User),
		CheckIn:  httpH.NewCheckInHandler(s.CheckIn),
		Insight:  httpH.NewInsightHandler(s.Insight),
		Report:   httpH.NewReportHandler(s.Report),
		Resource: httpH.NewResourceHandler(),
	}
}

func wireServer(log *logger.Logger, cfg Config, h Handlers, mw Middleware, metrics *observability.Metrics) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:             log,
		ServiceName:     cfg.ServiceName,
		AllowedOrigins:  cfg.AllowedOrigins,
		Metrics:         metrics,
		AuthHandler:     h.Auth,
		AuthMiddleware:  mw.Auth,
		UserHandler:     h.User,
		CheckInHandler:  h.CheckIn,
		InsightHandler:  h.Insight,
		ReportHandler:   h.Report,
		ResourceHandler: h.Resource,
		HealthHandler:   h.Health,
	})
}
