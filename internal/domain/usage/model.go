package usage

import (
	"github.com/shopspring/decimal"
	"github.com/tracegate/tracegate/internal/types"
)

// Snapshot is a derived, on-demand view of a tenant's current resource
// consumption. It is never persisted.
type Snapshot struct {
	CurrentUsers         int64           `json:"current_users"`
	CurrentFacilities    int64           `json:"current_facilities"`
	CurrentProducts      int64           `json:"current_products"`
	CurrentStorageGb     decimal.Decimal `json:"current_storage_gb"`
	CurrentMonthlyEvents int64           `json:"current_monthly_events"`
}

// For returns the snapshot value for a resource kind. Storage is
// reported in whole gigabytes, rounded up, so a tenant a few bytes over
// a ceiling is counted against it.
func (s *Snapshot) For(resource types.ResourceKind) int64 {
	switch resource {
	case types.ResourceKindUsers:
		return s.CurrentUsers
	case types.ResourceKindFacilities:
		return s.CurrentFacilities
	case types.ResourceKindProducts:
		return s.CurrentProducts
	case types.ResourceKindStorage:
		return s.CurrentStorageGb.Ceil().IntPart()
	case types.ResourceKindMonthlyEvents:
		return s.CurrentMonthlyEvents
	default:
		return 0
	}
}
