package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tracegate/tracegate/internal/domain/lot"
	ierr "github.com/tracegate/tracegate/internal/errors"
	"github.com/tracegate/tracegate/internal/logger"
	"github.com/tracegate/tracegate/internal/postgres"
	"github.com/tracegate/tracegate/internal/types"
)

type lotRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewLotRepository creates a new postgres-backed lot repository
func NewLotRepository(db *postgres.DB, logger *logger.Logger) lot.Repository {
	return &lotRepository{db: db, logger: logger}
}

const lotColumns = `id, tlc, product_id, facility_id, unit, total_quantity,
	available_quantity, reserved_quantity, shipped_quantity, lot_status,
	tenant_id, status, created_at, updated_at, created_by, updated_by`

func (r *lotRepository) Create(ctx context.Context, l *lot.TraceabilityLot) error {
	if err := l.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO traceability_lots (` + lotColumns + `)
		VALUES (:id, :tlc, :product_id, :facility_id, :unit, :total_quantity,
			:available_quantity, :reserved_quantity, :shipped_quantity, :lot_status,
			:tenant_id, :status, :created_at, :updated_at, :created_by, :updated_by)`

	if _, err := r.db.NamedExecContext(ctx, query, l); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create lot").
			WithReportableDetails(map[string]any{"tlc": l.TLC}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *lotRepository) Get(ctx context.Context, id string) (*lot.TraceabilityLot, error) {
	var l lot.TraceabilityLot
	query := `SELECT ` + lotColumns + ` FROM traceability_lots WHERE id = $1 AND status != $2`

	err := r.db.GetQuerier(ctx).GetContext(ctx, &l, query, id, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("lot not found").
				WithHintf("No traceability lot with ID %s", id).
				WithReportableDetails(map[string]any{"lot_id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get lot").
			Mark(ierr.ErrDatabase)
	}
	return &l, nil
}

// Reserve moves qty from available to reserved in a single conditional
// update. Two concurrent reservations against the same stale balance
// serialize in the database: the loser matches no row and gets
// ErrInsufficientInventory.
func (r *lotRepository) Reserve(ctx context.Context, id string, qty decimal.Decimal) (*lot.TraceabilityLot, error) {
	query := `
		UPDATE traceability_lots SET
			available_quantity = available_quantity - $2,
			reserved_quantity = reserved_quantity + $2,
			updated_at = $3
		WHERE id = $1
		  AND lot_status = $4
		  AND available_quantity >= $2
		RETURNING ` + lotColumns

	return r.conditionalBalanceUpdate(ctx, id, qty, query, func(l *lot.TraceabilityLot) error {
		return ierr.NewError("insufficient inventory").
			WithHintf("Requested %s %s but only %s available", qty, l.Unit, l.AvailableQuantity).
			WithReportableDetails(map[string]any{
				"lot_id":    id,
				"requested": qty.String(),
				"available": l.AvailableQuantity.String(),
			}).
			Mark(ierr.ErrInsufficientInventory)
	})
}

// Release moves qty from reserved back to available. Releasing more than
// is currently reserved is an invalid state, not an inventory shortage.
func (r *lotRepository) Release(ctx context.Context, id string, qty decimal.Decimal) (*lot.TraceabilityLot, error) {
	query := `
		UPDATE traceability_lots SET
			reserved_quantity = reserved_quantity - $2,
			available_quantity = available_quantity + $2,
			updated_at = $3
		WHERE id = $1
		  AND lot_status = $4
		  AND reserved_quantity >= $2
		RETURNING ` + lotColumns

	return r.conditionalBalanceUpdate(ctx, id, qty, query, func(l *lot.TraceabilityLot) error {
		return ierr.NewError("release exceeds reserved quantity").
			WithHintf("Requested %s %s but only %s reserved", qty, l.Unit, l.ReservedQuantity).
			WithReportableDetails(map[string]any{
				"lot_id":    id,
				"requested": qty.String(),
				"reserved":  l.ReservedQuantity.String(),
			}).
			Mark(ierr.ErrInvalidState)
	})
}

// Ship moves qty from reserved to shipped, consuming a prior reservation.
func (r *lotRepository) Ship(ctx context.Context, id string, qty decimal.Decimal) (*lot.TraceabilityLot, error) {
	query := `
		UPDATE traceability_lots SET
			reserved_quantity = reserved_quantity - $2,
			shipped_quantity = shipped_quantity + $2,
			updated_at = $3
		WHERE id = $1
		  AND lot_status = $4
		  AND reserved_quantity >= $2
		RETURNING ` + lotColumns

	return r.conditionalBalanceUpdate(ctx, id, qty, query, func(l *lot.TraceabilityLot) error {
		return ierr.NewError("ship exceeds reserved quantity").
			WithHintf("Requested %s %s but only %s reserved", qty, l.Unit, l.ReservedQuantity).
			WithReportableDetails(map[string]any{
				"lot_id":    id,
				"requested": qty.String(),
				"reserved":  l.ReservedQuantity.String(),
			}).
			Mark(ierr.ErrInvalidState)
	})
}

func (r *lotRepository) UpdateStatus(ctx context.Context, id string, status types.LotStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}

	query := `UPDATE traceability_lots SET lot_status = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.GetQuerier(ctx).ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update lot status").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("lot not found").
			WithHintf("No traceability lot with ID %s", id).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

// conditionalBalanceUpdate runs a balance-moving UPDATE ... RETURNING and
// disambiguates a no-row result: missing lot vs failed balance condition.
// onConditionFailed builds the caller-facing error from the current row.
func (r *lotRepository) conditionalBalanceUpdate(
	ctx context.Context,
	id string,
	qty decimal.Decimal,
	query string,
	onConditionFailed func(l *lot.TraceabilityLot) error,
) (*lot.TraceabilityLot, error) {
	if !qty.IsPositive() {
		return nil, ierr.NewError("quantity must be positive").
			WithHint("Quantity must be greater than zero").
			WithReportableDetails(map[string]any{"quantity": qty.String()}).
			Mark(ierr.ErrValidation)
	}

	var updated lot.TraceabilityLot
	err := r.db.GetQuerier(ctx).GetContext(ctx, &updated, query,
		id, qty, time.Now().UTC(), types.LotStatusActive)
	if err == nil {
		// a broken balance after a successful write is a defect upstream,
		// surface it loudly instead of returning the corrupt row
		if invErr := updated.CheckBalance(); invErr != nil {
			r.logger.Errorw("lot balance invariant violated after update",
				"lot_id", id, "error", invErr)
			return nil, invErr
		}
		return &updated, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, ierr.WithError(err).
			WithHint("Failed to update lot balance").
			Mark(ierr.ErrDatabase)
	}

	current, getErr := r.Get(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	if current.LotStatus != types.LotStatusActive {
		return nil, ierr.NewError("lot is not active").
			WithHintf("Lot is %s and cannot be modified", current.LotStatus).
			WithReportableDetails(map[string]any{
				"lot_id":     id,
				"lot_status": current.LotStatus,
			}).
			Mark(ierr.ErrInvalidState)
	}
	return nil, onConditionFailed(current)
}
