package dto

import (
	"github.com/tracegate/tracegate/internal/domain/usage"
	"github.com/tracegate/tracegate/internal/types"
)

// QuotaCheckResponse is the result of an advisory quota check. A passing
// check is not a reservation: concurrent callers may pass the same check
// and the mutating flow must re-validate atomically where it matters.
type QuotaCheckResponse struct {
	Resource           types.ResourceKind       `json:"resource"`
	Allowed            bool                     `json:"allowed"`
	CurrentUsage       int64                    `json:"current_usage"`
	MaxAllowed         int64                    `json:"max_allowed"`
	Remaining          int64                    `json:"remaining"`
	PercentageUsed     float64                  `json:"percentage_used"`
	WarningLevel       types.WarningLevel       `json:"warning_level"`
	SubscriptionStatus types.SubscriptionStatus `json:"subscription_status"`
}

type FeatureAccessResponse struct {
	Feature   types.FeatureName `json:"feature"`
	HasAccess bool              `json:"has_access"`
}

type UsageSnapshotResponse struct {
	*usage.Snapshot
}
