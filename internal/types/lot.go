package types

import (
	ierr "github.com/tracegate/tracegate/internal/errors"
	"github.com/samber/lo"
)

// LotStatus is the traceability status of a lot. Lots are never
// physically deleted, they transition to archived, expired or recalled.
type LotStatus string

const (
	LotStatusActive   LotStatus = "active"
	LotStatusArchived LotStatus = "archived"
	LotStatusExpired  LotStatus = "expired"
	LotStatusRecalled LotStatus = "recalled"
)

func (s LotStatus) String() string {
	return string(s)
}

func (s LotStatus) Validate() error {
	allowed := []LotStatus{
		LotStatusActive,
		LotStatusArchived,
		LotStatusExpired,
		LotStatusRecalled,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid lot status").
			WithHint("Invalid lot status").
			WithReportableDetails(map[string]any{
				"status":         s,
				"allowed_status": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CTEType identifies a critical tracking event kind per FSMA 204.
type CTEType string

const (
	CTETypeHarvest        CTEType = "harvest"
	CTETypeCooling        CTEType = "cooling"
	CTETypePacking        CTEType = "packing"
	CTETypeShipping       CTEType = "shipping"
	CTETypeReceiving      CTEType = "receiving"
	CTETypeTransformation CTEType = "transformation"
)

func (t CTEType) String() string {
	return string(t)
}

func (t CTEType) Validate() error {
	allowed := []CTEType{
		CTETypeHarvest,
		CTETypeCooling,
		CTETypePacking,
		CTETypeShipping,
		CTETypeReceiving,
		CTETypeTransformation,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid tracking event type").
			WithHint("Invalid critical tracking event type").
			WithReportableDetails(map[string]any{
				"type":          t,
				"allowed_types": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
