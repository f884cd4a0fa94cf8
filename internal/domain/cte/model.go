package cte

import (
	"time"

	"github.com/shopspring/decimal"
	ierr "github.com/tracegate/tracegate/internal/errors"
	"github.com/tracegate/tracegate/internal/types"
)

// Event is a critical tracking event recorded against a traceability lot
// for FSMA 204 regulatory traceability.
type Event struct {
	ID         string          `db:"id" json:"id"`
	TenantID   string          `db:"tenant_id" json:"tenant_id"`
	LotID      string          `db:"lot_id" json:"lot_id"`
	Type       types.CTEType   `db:"event_type" json:"event_type"`
	Quantity   decimal.Decimal `db:"quantity" json:"quantity"`
	Unit       string          `db:"unit" json:"unit"`
	OccurredAt time.Time       `db:"occurred_at" json:"occurred_at"`
	RecordedAt time.Time       `db:"recorded_at" json:"recorded_at"`
	RecordedBy string          `db:"recorded_by" json:"recorded_by"`
}

// Validate performs validation on the tracking event
func (e *Event) Validate() error {
	if e.LotID == "" {
		return ierr.NewError("lot_id is required").
			WithHint("Please provide a lot ID").
			Mark(ierr.ErrValidation)
	}
	if err := e.Type.Validate(); err != nil {
		return err
	}
	if !e.Quantity.IsPositive() {
		return ierr.NewError("quantity must be positive").
			WithHint("Event quantity must be greater than zero").
			WithReportableDetails(map[string]any{
				"quantity": e.Quantity.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
