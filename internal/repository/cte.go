package repository

import (
	"context"
	"time"

	"github.com/tracegate/tracegate/internal/domain/cte"
	ierr "github.com/tracegate/tracegate/internal/errors"
	"github.com/tracegate/tracegate/internal/logger"
	"github.com/tracegate/tracegate/internal/postgres"
)

type cteRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewCTERepository creates a new postgres-backed tracking event repository
func NewCTERepository(db *postgres.DB, logger *logger.Logger) cte.Repository {
	return &cteRepository{db: db, logger: logger}
}

const cteColumns = `id, tenant_id, lot_id, event_type, quantity, unit,
	occurred_at, recorded_at, recorded_by`

func (r *cteRepository) Insert(ctx context.Context, e *cte.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO tracking_events (` + cteColumns + `)
		VALUES (:id, :tenant_id, :lot_id, :event_type, :quantity, :unit,
			:occurred_at, :recorded_at, :recorded_by)`

	if _, err := r.db.NamedExecContext(ctx, query, e); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to record tracking event").
			WithReportableDetails(map[string]any{
				"lot_id":     e.LotID,
				"event_type": e.Type,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *cteRepository) ListByLot(ctx context.Context, lotID string) ([]*cte.Event, error) {
	query := `SELECT ` + cteColumns + ` FROM tracking_events WHERE lot_id = $1 ORDER BY occurred_at`

	events := make([]*cte.Event, 0)
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &events, query, lotID); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list tracking events").
			Mark(ierr.ErrDatabase)
	}
	return events, nil
}

func (r *cteRepository) CountForTenantSince(ctx context.Context, tenantID string, since time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM tracking_events WHERE tenant_id = $1 AND recorded_at >= $2`

	var count int64
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, tenantID, since); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count tracking events").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}
