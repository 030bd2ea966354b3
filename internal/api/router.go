package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/actilog/actilog/internal/dbpool"
	"github.com/actilog/actilog/internal/middleware"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log         *logrus.Logger
	Pool        *dbpool.Pool
	Logs        LogReader
	Deleter     LogDeleter
	Exporter    Exporter
	Settings    SettingsManager
	Tokens      TokenMinter
	Events      EventSink
	CORSOrigins []string
	Version     string
}

// Router-level limits.
const (
	maxBodySize = 1 << 20 // 1 MB; event payloads are small
	rateLimit   = 100     // requests per second per IP
	rateBurst   = 200     // token bucket burst size
)

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.NewRateLimiter(ctx, rateLimit, rateBurst).Handler())
	r.Use(middleware.Prometheus())

	// Metrics endpoint (unauthenticated, like health).
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	health := NewHealthHandler(deps.Pool, log, deps.Version)
	logs := NewLogHandler(deps.Logs, deps.Deleter, log)
	events := NewEventHandler(deps.Events, log)
	export := NewExportHandler(deps.Exporter, log)
	settings := NewSettingsHandler(deps.Settings, log)
	tokens := NewTokenHandler(deps.Tokens)
	admin := NewAdminHandler(deps.Deleter, log)

	// Health and readiness.
	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	// Event ingestion.
	api.POST("/events", events.Record)

	// Log reads.
	api.GET("/logs", logs.List)
	api.GET("/logs/search", logs.Search)
	api.GET("/logs/usernames", logs.Usernames)
	api.GET("/logs/export", export.Download)

	// Deletion. Both require a confirmation token from /tokens.
	api.DELETE("/logs/:id", logs.Delete)
	api.POST("/logs/bulk-delete", logs.BulkDelete)

	// Confirmation tokens.
	api.GET("/tokens/delete/:id", tokens.DeleteToken)
	api.GET("/tokens/bulk-delete", tokens.BulkDeleteToken)

	// Settings.
	api.GET("/settings", settings.Get)
	api.PUT("/settings", settings.Update)

	// Admin.
	api.POST("/admin/teardown", admin.Teardown)
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(r.Group("/api/v1"), deps)

	return r
}
