package delivery

import (
	"time"

	"presellgo/internal/delivery/middleware"
	"presellgo/pkg/logger"
	"presellgo/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type HTTPRouter struct {
	handlers       *HTTPHandlers
	logger         *logger.Logger
	metrics        *metrics.Metrics
	requestTimeout time.Duration
	adminToken     string
}

func NewHTTPRouter(handlers *HTTPHandlers, logger *logger.Logger, metrics *metrics.Metrics, requestTimeout time.Duration, adminToken string) *HTTPRouter {
	return &HTTPRouter{
		handlers:       handlers,
		logger:         logger,
		metrics:        metrics,
		requestTimeout: requestTimeout,
		adminToken:     adminToken,
	}
}

func (r *HTTPRouter) SetupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.Recovery(r.logger))
	router.Use(middleware.Metrics(r.metrics))
	router.Use(middleware.Timeout(r.requestTimeout))

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Content-Type", "X-Request-ID", "Authorization"}
	config.ExposeHeaders = []string{"X-Request-ID"}

	router.Use(cors.New(config))

	// Health endpoint
	router.GET("/health", r.handlers.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Page resolution
		v1.GET("/pages/:slug", r.handlers.ResolvePage)

		// Tracking beacon
		v1.POST("/track", r.handlers.Track)

		// Admin endpoints
		admin := v1.Group("/admin")
		admin.Use(middleware.AdminToken(r.adminToken))
		{
			admin.GET("/config", r.handlers.GetConfig)
			admin.POST("/products", r.handlers.CreateProduct)
			admin.PUT("/products/:slug", r.handlers.SaveProduct)
			admin.DELETE("/products/:slug", r.handlers.DeleteProduct)
			admin.POST("/products/:slug/activate", r.handlers.ActivateProduct)
			admin.GET("/metrics", r.handlers.GetCampaignMetrics)
			admin.POST("/metrics/reset", r.handlers.ResetCampaignMetrics)
		}
	}

	// Prometheus metrics endpoint
	router.GET("/metrics", middleware.PrometheusHandler())

	return router
}
