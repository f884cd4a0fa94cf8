package api

import (
	"github.com/gin-gonic/gin"
	"github.com/tracegate/tracegate/internal/api/cron"
	v1 "github.com/tracegate/tracegate/internal/api/v1"
	"github.com/tracegate/tracegate/internal/config"
	"github.com/tracegate/tracegate/internal/logger"
	"github.com/tracegate/tracegate/internal/rest/middleware"
)

type Handlers struct {
	Health       *v1.HealthHandler
	Plan         *v1.PlanHandler
	Quota        *v1.QuotaHandler
	Inventory    *v1.InventoryHandler
	Subscription *v1.SubscriptionHandler

	CronSubscription *cron.SubscriptionHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	router := gin.New()

	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.SentryMiddleware(cfg),
	)

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1", middleware.TenantMiddleware)
	registerV1Routes(v1Group, handlers)

	// Cron routes are called by the scheduler, not tenants, so they skip
	// the tenant middleware.
	cronGroup := router.Group("/cron")
	registerCronRoutes(cronGroup, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	plans := router.Group("/plans")
	{
		plans.GET("", handlers.Plan.ListPlans)
		plans.GET("/:code", handlers.Plan.GetPlan)
	}

	quota := router.Group("/quota")
	{
		quota.GET("/usage", handlers.Quota.GetUsage)
		quota.GET("/features/:feature", handlers.Quota.GetFeatureAccess)
		quota.GET("/:resource", handlers.Quota.CheckQuota)
	}

	subscription := router.Group("/subscription")
	{
		subscription.GET("", handlers.Subscription.GetSubscription)
		subscription.POST("/trial", handlers.Subscription.StartTrial)
		subscription.POST("/activate", handlers.Subscription.Activate)
		subscription.POST("/cancel", handlers.Subscription.Cancel)
	}

	lots := router.Group("/lots")
	{
		lots.POST("", handlers.Inventory.CreateLot)
		lots.GET("/:id", handlers.Inventory.GetAvailable)
		lots.POST("/:id/reserve", handlers.Inventory.Reserve)
		lots.POST("/:id/release", handlers.Inventory.Release)
		lots.POST("/:id/ship", handlers.Inventory.Ship)
		lots.GET("/:id/events", handlers.Inventory.ListLotEvents)
	}
}

func registerCronRoutes(router *gin.RouterGroup, handlers Handlers) {
	subscriptions := router.Group("/subscriptions")
	{
		subscriptions.POST("/sweep", handlers.CronSubscription.RunLifecycleSweep)
	}
}
