// Package api assembles the gin engine and route table.
package api

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/rtvox/rtvox-billing/internal/api/v1"
	"github.com/rtvox/rtvox-billing/internal/config"
	"github.com/rtvox/rtvox-billing/internal/logger"
	"github.com/rtvox/rtvox-billing/internal/rest/middleware"
	"github.com/rtvox/rtvox-billing/internal/types"
)

// Handlers groups the API handlers for router construction.
type Handlers struct {
	Refund     *v1.RefundHandler
	Membership *v1.MembershipHandler
	Health     *v1.HealthHandler
}

// NewRouter builds the gin engine with the standard middleware chain and
// the service's route table.
func NewRouter(handlers Handlers, cfg *config.Configuration, log *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode == types.RunModeProd {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.RecoveryWithWriter(log.GetGinLogger()),
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(log),
		middleware.ErrorHandler(),
	)

	router.GET("/health", handlers.Health.Health)

	apiV1 := router.Group("/v1")
	{
		refunds := apiV1.Group("/refunds")
		{
			refunds.POST("/estimate", handlers.Refund.Estimate)
			refunds.POST("/request", handlers.Refund.Request)
		}

		membership := apiV1.Group("/membership")
		{
			membership.GET("/status", handlers.Membership.Status)
		}
	}

	return router
}
