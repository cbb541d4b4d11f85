package handler

import (
	"context"
	"net/http"

	"user_api/internal/metrics"
	"user_api/internal/middleware"
	"user_api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Pinger reports database reachability; *pgxpool.Pool satisfies it
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps bundles everything the HTTP layer needs
type RouterDeps struct {
	Users     service.UserService
	Validator middleware.TokenValidator
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	DB        Pinger
	Log       zerolog.Logger
}

// NewRouter builds the gin engine with middleware and all routes
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(deps.Log), middleware.CORS())
	if deps.Metrics != nil {
		router.Use(deps.Metrics.GinMiddleware())
	}

	userHandler := NewUserHandler(deps.Users, deps.Log)
	userHandler.RegisterUserRoutes(router, middleware.JWTAuthMiddleware(deps.Validator))

	router.GET("/health", func(c *gin.Context) {
		if deps.DB != nil {
			if err := deps.DB.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	})

	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	return router
}
