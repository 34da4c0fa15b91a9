package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"docparse/internal/config"
	"docparse/internal/handler"
	"docparse/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	logger *zap.Logger,
	parseH *handler.ParseHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.MaxMultipartMemory = 32 << 20

	// Health checks
	r.GET("/", healthH.Root)
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	if cfg.Auth.Enabled() {
		api.Use(middleware.BearerAuth(cfg.Auth.JWTSecret, cfg.Auth.Issuer))
	}

	api.POST("/parseDocument", middleware.BodyLimit(cfg.Server.MaxContentLength), parseH.ParseDocument)
	api.GET("/parseRecords", parseH.ListRecords)

	return r
}
