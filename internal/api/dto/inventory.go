package dto

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tracegate/tracegate/internal/domain/lot"
	ierr "github.com/tracegate/tracegate/internal/errors"
	"github.com/tracegate/tracegate/internal/types"
)

type CreateLotRequest struct {
	TLC        string          `json:"tlc"`
	ProductID  string          `json:"product_id" binding:"required"`
	FacilityID string          `json:"facility_id" binding:"required"`
	Unit       string          `json:"unit" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
}

func (r *CreateLotRequest) Validate() error {
	if !r.Quantity.IsPositive() {
		return ierr.NewError("quantity must be positive").
			WithHint("Lot quantity must be greater than zero").
			WithReportableDetails(map[string]any{"quantity": r.Quantity.String()}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ToLot builds a new lot with the full quantity available. A missing TLC
// gets a generated human-facing code.
func (r *CreateLotRequest) ToLot(ctx context.Context) *lot.TraceabilityLot {
	tlc := r.TLC
	if tlc == "" {
		tlc = types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_LOT_CODE)
	}
	return &lot.TraceabilityLot{
		ID:                types.GenerateUUIDWithPrefix(types.UUID_PREFIX_LOT),
		TLC:               tlc,
		ProductID:         r.ProductID,
		FacilityID:        r.FacilityID,
		Unit:              r.Unit,
		TotalQuantity:     r.Quantity,
		AvailableQuantity: r.Quantity,
		ReservedQuantity:  decimal.Zero,
		ShippedQuantity:   decimal.Zero,
		LotStatus:         types.LotStatusActive,
		BaseModel:         types.GetDefaultBaseModel(ctx),
	}
}

type QuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

func (r *QuantityRequest) Validate() error {
	if !r.Quantity.IsPositive() {
		return ierr.NewError("quantity must be positive").
			WithHint("Quantity must be greater than zero").
			WithReportableDetails(map[string]any{"quantity": r.Quantity.String()}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// LotBalanceResponse reports a lot's ledger balances.
type LotBalanceResponse struct {
	ID        string          `json:"id"`
	TLC       string          `json:"tlc"`
	Total     decimal.Decimal `json:"total"`
	Available decimal.Decimal `json:"available"`
	Reserved  decimal.Decimal `json:"reserved"`
	Shipped   decimal.Decimal `json:"shipped"`
	Unit      string          `json:"unit"`
	LotStatus types.LotStatus `json:"lot_status"`
}

func NewLotBalanceResponse(l *lot.TraceabilityLot) *LotBalanceResponse {
	return &LotBalanceResponse{
		ID:        l.ID,
		TLC:       l.TLC,
		Total:     l.TotalQuantity,
		Available: l.AvailableQuantity,
		Reserved:  l.ReservedQuantity,
		Shipped:   l.ShippedQuantity,
		Unit:      l.Unit,
		LotStatus: l.LotStatus,
	}
}

type TrackingEventResponse struct {
	ID         string          `json:"id"`
	LotID      string          `json:"lot_id"`
	Type       types.CTEType   `json:"type"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       string          `json:"unit"`
	OccurredAt time.Time       `json:"occurred_at"`
}

type ListTrackingEventsResponse struct {
	Items []*TrackingEventResponse `json:"items"`
	Total int                      `json:"total"`
}
