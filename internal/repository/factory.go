package repository

import (
	"github.com/tracegate/tracegate/internal/domain/cte"
	"github.com/tracegate/tracegate/internal/domain/lot"
	"github.com/tracegate/tracegate/internal/domain/plan"
	"github.com/tracegate/tracegate/internal/domain/tenant"
	"github.com/tracegate/tracegate/internal/domain/usage"
	"github.com/tracegate/tracegate/internal/logger"
	"github.com/tracegate/tracegate/internal/postgres"
)

// Repositories bundles all repository implementations for wiring
type Repositories struct {
	Tenant tenant.Repository
	Plan   plan.Repository
	Lot    lot.Repository
	CTE    cte.Repository
	Usage  usage.Repository
}

// NewRepositories builds the postgres-backed repository set. The plan
// repository is the static catalog: plans are immutable reference data
// and never hit the database.
func NewRepositories(db *postgres.DB, logger *logger.Logger) *Repositories {
	return &Repositories{
		Tenant: NewTenantRepository(db, logger),
		Plan:   plan.NewCatalogRepository(),
		Lot:    NewLotRepository(db, logger),
		CTE:    NewCTERepository(db, logger),
		Usage:  NewUsageRepository(db, logger),
	}
}
