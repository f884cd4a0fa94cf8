package repository

import (
	"context"
	"time"

	"github.com/tracegate/tracegate/internal/domain/usage"
	ierr "github.com/tracegate/tracegate/internal/errors"
	"github.com/tracegate/tracegate/internal/logger"
	"github.com/tracegate/tracegate/internal/postgres"
	"github.com/tracegate/tracegate/internal/types"
)

type usageRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewUsageRepository creates a new postgres-backed usage counter
func NewUsageRepository(db *postgres.DB, logger *logger.Logger) usage.Repository {
	return &usageRepository{db: db, logger: logger}
}

func (r *usageRepository) CountUsers(ctx context.Context, tenantID string) (int64, error) {
	return r.countRows(ctx, "users", tenantID)
}

func (r *usageRepository) CountFacilities(ctx context.Context, tenantID string) (int64, error) {
	return r.countRows(ctx, "facilities", tenantID)
}

func (r *usageRepository) CountProducts(ctx context.Context, tenantID string) (int64, error) {
	return r.countRows(ctx, "products", tenantID)
}

func (r *usageRepository) SumStorageBytes(ctx context.Context, tenantID string) (int64, error) {
	query := `SELECT COALESCE(SUM(size_bytes), 0) FROM documents WHERE tenant_id = $1 AND status = $2`

	var total int64
	err := r.db.GetQuerier(ctx).GetContext(ctx, &total, query, tenantID, types.StatusPublished)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to sum storage usage").
			WithReportableDetails(map[string]any{"tenant_id": tenantID}).
			Mark(ierr.ErrDatabase)
	}
	return total, nil
}

func (r *usageRepository) CountEventsSince(ctx context.Context, tenantID string, since time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM tracking_events WHERE tenant_id = $1 AND recorded_at >= $2`

	var count int64
	err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, tenantID, since)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count tracking events").
			WithReportableDetails(map[string]any{"tenant_id": tenantID}).
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

// countRows counts published rows in a tenant-scoped table. The table
// name comes from a fixed internal set, never caller input.
func (r *usageRepository) countRows(ctx context.Context, table, tenantID string) (int64, error) {
	query := `SELECT COUNT(*) FROM ` + table + ` WHERE tenant_id = $1 AND status = $2`

	var count int64
	err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, tenantID, types.StatusPublished)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count resource usage").
			WithReportableDetails(map[string]any{
				"tenant_id": tenantID,
				"resource":  table,
			}).
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}
