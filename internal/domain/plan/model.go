package plan

import (
	ierr "github.com/tracegate/tracegate/internal/errors"
	"github.com/tracegate/tracegate/internal/types"
)

// Plan is a billing tier defining resource limits and enabled features.
// Plans are immutable reference data resolved by code.
type Plan struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Limits      Limits   `json:"limits"`
	Features    Features `json:"features"`
}

// Limits holds the numeric ceilings of a plan. A ceiling of 0 means the
// resource is not available on the plan.
type Limits struct {
	MaxUsers         int64 `json:"max_users"`
	MaxFacilities    int64 `json:"max_facilities"`
	MaxProducts      int64 `json:"max_products"`
	MaxStorageGb     int64 `json:"max_storage_gb"`
	MaxMonthlyEvents int64 `json:"max_monthly_events"`
}

// Features holds the boolean feature flags of a plan.
type Features struct {
	FDACompliance  bool `json:"fda_compliance"`
	AIAgent        bool `json:"ai_agent"`
	CTETracking    bool `json:"cte_tracking"`
	Reporting      bool `json:"reporting"`
	APIAccess      bool `json:"api_access"`
	CustomBranding bool `json:"custom_branding"`
}

// LimitFor resolves the numeric ceiling for a resource kind.
func (p *Plan) LimitFor(resource types.ResourceKind) (int64, error) {
	switch resource {
	case types.ResourceKindUsers:
		return p.Limits.MaxUsers, nil
	case types.ResourceKindFacilities:
		return p.Limits.MaxFacilities, nil
	case types.ResourceKindProducts:
		return p.Limits.MaxProducts, nil
	case types.ResourceKindStorage:
		return p.Limits.MaxStorageGb, nil
	case types.ResourceKindMonthlyEvents:
		return p.Limits.MaxMonthlyEvents, nil
	default:
		return 0, ierr.NewError("unknown resource kind").
			WithHint("Invalid resource kind").
			WithReportableDetails(map[string]any{"resource": resource}).
			Mark(ierr.ErrValidation)
	}
}

// FeatureEnabled resolves a boolean feature flag by name.
func (p *Plan) FeatureEnabled(feature types.FeatureName) (bool, error) {
	switch feature {
	case types.FeatureFDACompliance:
		return p.Features.FDACompliance, nil
	case types.FeatureAIAgent:
		return p.Features.AIAgent, nil
	case types.FeatureCTETracking:
		return p.Features.CTETracking, nil
	case types.FeatureReporting:
		return p.Features.Reporting, nil
	case types.FeatureAPIAccess:
		return p.Features.APIAccess, nil
	case types.FeatureCustomBranding:
		return p.Features.CustomBranding, nil
	default:
		return false, ierr.NewError("unknown feature name").
			WithHint("Invalid feature name").
			WithReportableDetails(map[string]any{"feature": feature}).
			Mark(ierr.ErrValidation)
	}
}
