package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/tracegate/tracegate/internal/api"
	"github.com/tracegate/tracegate/internal/api/cron"
	v1 "github.com/tracegate/tracegate/internal/api/v1"
	"github.com/tracegate/tracegate/internal/cache"
	"github.com/tracegate/tracegate/internal/config"
	"github.com/tracegate/tracegate/internal/logger"
	"github.com/tracegate/tracegate/internal/postgres"
	"github.com/tracegate/tracegate/internal/repository"
	"github.com/tracegate/tracegate/internal/sentry"
	"github.com/tracegate/tracegate/internal/service"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	app := fx.New(
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Monitoring
			sentry.NewSentryService,

			// Cache
			cache.NewInMemoryCache,

			// Postgres
			postgres.NewDB,

			// Repositories
			repository.NewRepositories,

			// Services
			service.NewServiceParams,
			service.NewPlanService,
			service.NewQuotaService,
			service.NewInventoryService,
			service.NewSubscriptionLifecycleService,

			// API
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			sentry.RegisterHooks,
			startServer,
		),
	)

	app.Run()
}

func provideHandlers(
	cfg *config.Configuration,
	logger *logger.Logger,
	planService service.PlanService,
	quotaService service.QuotaService,
	inventoryService service.InventoryService,
	lifecycleService service.SubscriptionLifecycleService,
) api.Handlers {
	return api.Handlers{
		Health:           v1.NewHealthHandler(),
		Plan:             v1.NewPlanHandler(planService, logger),
		Quota:            v1.NewQuotaHandler(quotaService, logger),
		Inventory:        v1.NewInventoryHandler(inventoryService, logger),
		Subscription:     v1.NewSubscriptionHandler(lifecycleService, logger),
		CronSubscription: cron.NewSubscriptionHandler(lifecycleService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}
