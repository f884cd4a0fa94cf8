package service

import (
	"context"
	"time"

	"github.com/tracegate/tracegate/internal/cache"
	"github.com/tracegate/tracegate/internal/config"
	"github.com/tracegate/tracegate/internal/domain/cte"
	"github.com/tracegate/tracegate/internal/domain/lot"
	"github.com/tracegate/tracegate/internal/domain/plan"
	"github.com/tracegate/tracegate/internal/domain/tenant"
	"github.com/tracegate/tracegate/internal/domain/usage"
	"github.com/tracegate/tracegate/internal/logger"
	"github.com/tracegate/tracegate/internal/postgres"
	"github.com/tracegate/tracegate/internal/repository"
)

// TxRunner runs a function inside a store transaction. *postgres.DB
// implements it; tests substitute a pass-through runner.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     TxRunner
	Cache  cache.Cache

	// Repositories
	TenantRepo tenant.Repository
	PlanRepo   plan.Repository
	LotRepo    lot.Repository
	CTERepo    cte.Repository
	UsageRepo  usage.Repository
}

// NewServiceParams assembles service dependencies for the fx container
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db *postgres.DB,
	cache cache.Cache,
	repos *repository.Repositories,
) ServiceParams {
	return ServiceParams{
		Logger:     logger,
		Config:     config,
		DB:         db,
		Cache:      cache,
		TenantRepo: repos.Tenant,
		PlanRepo:   repos.Plan,
		LotRepo:    repos.Lot,
		CTERepo:    repos.CTE,
		UsageRepo:  repos.Usage,
	}
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
