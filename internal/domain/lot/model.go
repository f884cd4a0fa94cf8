package lot

import (
	"github.com/shopspring/decimal"
	ierr "github.com/tracegate/tracegate/internal/errors"
	"github.com/tracegate/tracegate/internal/types"
)

// TraceabilityLot is a traceable batch of product identified by its TLC
// (traceability lot code). Quantities are decimals, never floats, so
// repeated partial reservations cannot accumulate rounding drift.
//
// Balance invariant, enforced by every mutation:
//
//	AvailableQuantity + ReservedQuantity + ShippedQuantity == TotalQuantity
//
// with all three components non-negative. A violation is a defect signal,
// not a user error.
type TraceabilityLot struct {
	ID                string          `db:"id" json:"id"`
	TLC               string          `db:"tlc" json:"tlc"`
	ProductID         string          `db:"product_id" json:"product_id"`
	FacilityID        string          `db:"facility_id" json:"facility_id"`
	Unit              string          `db:"unit" json:"unit"`
	TotalQuantity     decimal.Decimal `db:"total_quantity" json:"total_quantity"`
	AvailableQuantity decimal.Decimal `db:"available_quantity" json:"available_quantity"`
	ReservedQuantity  decimal.Decimal `db:"reserved_quantity" json:"reserved_quantity"`
	ShippedQuantity   decimal.Decimal `db:"shipped_quantity" json:"shipped_quantity"`
	LotStatus         types.LotStatus `db:"lot_status" json:"lot_status"`
	types.BaseModel
}

// Validate performs validation on the lot
func (l *TraceabilityLot) Validate() error {
	if l.TLC == "" {
		return ierr.NewError("tlc is required").
			WithHint("Please provide a traceability lot code").
			Mark(ierr.ErrValidation)
	}
	if l.Unit == "" {
		return ierr.NewError("unit is required").
			WithHint("Please provide a unit of measure").
			Mark(ierr.ErrValidation)
	}
	if l.TotalQuantity.IsNegative() {
		return ierr.NewError("total quantity cannot be negative").
			WithHint("Lot quantity must be zero or positive").
			WithReportableDetails(map[string]any{
				"total_quantity": l.TotalQuantity.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	if err := l.LotStatus.Validate(); err != nil {
		return err
	}
	return l.CheckBalance()
}

// CheckBalance verifies the balance invariant. Callers treat a failure
// here as fatal: it means an upstream flow reserved or shipped more than
// was ever available.
func (l *TraceabilityLot) CheckBalance() error {
	if l.AvailableQuantity.IsNegative() ||
		l.ReservedQuantity.IsNegative() ||
		l.ShippedQuantity.IsNegative() {
		return ierr.NewError("lot balance component is negative").
			WithHint("Lot balances are corrupted").
			WithReportableDetails(map[string]any{
				"lot_id":    l.ID,
				"available": l.AvailableQuantity.String(),
				"reserved":  l.ReservedQuantity.String(),
				"shipped":   l.ShippedQuantity.String(),
			}).
			Mark(ierr.ErrInvariantViolation)
	}

	sum := l.AvailableQuantity.Add(l.ReservedQuantity).Add(l.ShippedQuantity)
	if !sum.Equal(l.TotalQuantity) {
		return ierr.NewError("lot balances do not sum to total").
			WithHint("Lot balances are corrupted").
			WithReportableDetails(map[string]any{
				"lot_id":    l.ID,
				"total":     l.TotalQuantity.String(),
				"available": l.AvailableQuantity.String(),
				"reserved":  l.ReservedQuantity.String(),
				"shipped":   l.ShippedQuantity.String(),
			}).
			Mark(ierr.ErrInvariantViolation)
	}
	return nil
}

// CanShip reports whether qty could be shipped directly from the
// available balance. Advisory only: the authoritative check happens in
// the conditional update that performs the reservation.
func (l *TraceabilityLot) CanShip(qty decimal.Decimal) bool {
	return qty.IsPositive() && qty.LessThanOrEqual(l.AvailableQuantity)
}
