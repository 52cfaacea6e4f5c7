package router

import (
	"github.com/gin-gonic/gin"

	"spendscope/internal/config"
	"spendscope/internal/handler"
	"spendscope/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	analysisH *handler.AnalysisHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	statements := v1.Group("/statements")
	statements.POST("/analyze", analysisH.Analyze)
	statements.POST("/analyze/export", analysisH.Export)

	return r
}
