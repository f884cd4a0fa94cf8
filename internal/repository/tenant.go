package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tracegate/tracegate/internal/domain/tenant"
	ierr "github.com/tracegate/tracegate/internal/errors"
	"github.com/tracegate/tracegate/internal/logger"
	"github.com/tracegate/tracegate/internal/postgres"
	"github.com/tracegate/tracegate/internal/types"
)

type tenantRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewTenantRepository creates a new postgres-backed tenant repository
func NewTenantRepository(db *postgres.DB, logger *logger.Logger) tenant.Repository {
	return &tenantRepository{db: db, logger: logger}
}

const tenantColumns = `id, name, plan_code, subscription_status, trial_start, trial_end,
	subscription_start, subscription_end, has_payment_method, status, created_at, updated_at`

func (r *tenantRepository) Create(ctx context.Context, t *tenant.Tenant) error {
	if err := t.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO tenants (` + tenantColumns + `)
		VALUES (:id, :name, :plan_code, :subscription_status, :trial_start, :trial_end,
			:subscription_start, :subscription_end, :has_payment_method, :status,
			:created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create tenant").
			WithReportableDetails(map[string]any{"tenant_id": t.ID}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *tenantRepository) Get(ctx context.Context, id string) (*tenant.Tenant, error) {
	var t tenant.Tenant
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1 AND status != $2`

	err := r.db.GetQuerier(ctx).GetContext(ctx, &t, query, id, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("tenant not found").
				WithHintf("No tenant with ID %s", id).
				WithReportableDetails(map[string]any{"tenant_id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get tenant").
			Mark(ierr.ErrDatabase)
	}
	return &t, nil
}

func (r *tenantRepository) Update(ctx context.Context, t *tenant.Tenant) error {
	if err := t.Validate(); err != nil {
		return err
	}

	t.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE tenants SET
			name = :name,
			plan_code = :plan_code,
			subscription_status = :subscription_status,
			trial_start = :trial_start,
			trial_end = :trial_end,
			subscription_start = :subscription_start,
			subscription_end = :subscription_end,
			has_payment_method = :has_payment_method,
			status = :status,
			updated_at = :updated_at
		WHERE id = :id`

	res, err := r.db.NamedExecContext(ctx, query, t)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update tenant").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("tenant not found").
			WithHintf("No tenant with ID %s", t.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *tenantRepository) ListSweepDue(ctx context.Context, now time.Time, limit int, afterID string) ([]*tenant.Tenant, error) {
	query := `
		SELECT ` + tenantColumns + `
		FROM tenants
		WHERE status = $1
		  AND id > $2
		  AND (
			(subscription_status = $3 AND trial_end <= $4)
			OR (subscription_status = $5 AND subscription_end <= $4)
		  )
		ORDER BY id
		LIMIT $6`

	tenants := make([]*tenant.Tenant, 0)
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &tenants, query,
		types.StatusPublished,
		afterID,
		types.SubscriptionStatusTrial,
		now,
		types.SubscriptionStatusActive,
		limit,
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list tenants due for sweep").
			Mark(ierr.ErrDatabase)
	}
	return tenants, nil
}

// TransitionSubscription applies t's subscription fields with a
// conditional update keyed on the expected current status. Overlapping
// sweeps and explicit cancellations serialize on this condition: at most
// one writer observes a matched row.
func (r *tenantRepository) TransitionSubscription(ctx context.Context, t *tenant.Tenant, expected types.SubscriptionStatus) (bool, error) {
	query := `
		UPDATE tenants SET
			subscription_status = $1,
			plan_code = $2,
			trial_start = $3,
			trial_end = $4,
			subscription_start = $5,
			subscription_end = $6,
			updated_at = $7
		WHERE id = $8 AND subscription_status = $9 AND status = $10`

	res, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		t.SubscriptionStatus,
		t.PlanCode,
		t.TrialStart,
		t.TrialEnd,
		t.SubscriptionStart,
		t.SubscriptionEnd,
		time.Now().UTC(),
		t.ID,
		expected,
		types.StatusPublished,
	)
	if err != nil {
		return false, ierr.WithError(err).
			WithHint("Failed to transition tenant subscription").
			WithReportableDetails(map[string]any{
				"tenant_id": t.ID,
				"expected":  expected,
				"target":    t.SubscriptionStatus,
			}).
			Mark(ierr.ErrDatabase)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, ierr.WithError(err).
			WithHint("Failed to read transition result").
			Mark(ierr.ErrDatabase)
	}
	return n > 0, nil
}
