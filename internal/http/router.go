package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/mindtrack-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mindtrack-backend/internal/http/middleware"
	"github.com/yungbote/mindtrack-backend/internal/observability"
	"github.com/yungbote/mindtrack-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	Metrics        *observability.Metrics

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware
	UserHandler    *httpH.UserHandler

	CheckInHandler  *httpH.CheckInHandler
	InsightHandler  *httpH.InsightHandler
	ReportHandler   *httpH.ReportHandler
	ResourceHandler *httpH.ResourceHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
			api.POST("/refresh", cfg.AuthHandler.Refresh)
		}

		// Sharing and support (public)
		if cfg.ReportHandler != nil {
			api.GET("/shared/:token", cfg.ReportHandler.Shared)
		}
		if cfg.ResourceHandler != nil {
			api.GET("/resources/emergency", cfg.ResourceHandler.Emergency)
		}
	}

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
			protected.PATCH("/me", cfg.UserHandler.UpdateMe)
		}

		// Check-ins
		if cfg.CheckInHandler != nil {
			protected.POST("/checkins", cfg.CheckInHandler.Submit)
			protected.GET("/checkins", cfg.CheckInHandler.List)
			protected.GET("/checkins/:id", cfg.CheckInHandler.Get)
		}

		// Insights
		if cfg.InsightHandler != nil {
			protected.GET("/checkins/:id/insights", cfg.InsightHandler.ForCheckIn)
			protected.GET("/insights/latest", cfg.InsightHandler.Latest)
			protected.GET("/insights/history", cfg.InsightHandler.History)
		}

		// Reports
		if cfg.ReportHandler != nil {
			protected.POST("/checkins/:id/report", cfg.ReportHandler.Export)
			protected.GET("/checkins/:id/report.png", cfg.ReportHandler.Download)
			protected.GET("/reports/:id", cfg.ReportHandler.Stored)
		}
	}

	return r
}
