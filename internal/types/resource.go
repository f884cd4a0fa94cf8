package types

import (
	ierr "github.com/tracegate/tracegate/internal/errors"
	"github.com/samber/lo"
)

// ResourceKind identifies a quota-limited resource for a tenant.
type ResourceKind string

const (
	ResourceKindUsers         ResourceKind = "users"
	ResourceKindFacilities    ResourceKind = "facilities"
	ResourceKindProducts      ResourceKind = "products"
	ResourceKindStorage       ResourceKind = "storage"
	ResourceKindMonthlyEvents ResourceKind = "monthly_events"
)

func (r ResourceKind) String() string {
	return string(r)
}

func (r ResourceKind) Validate() error {
	allowed := []ResourceKind{
		ResourceKindUsers,
		ResourceKindFacilities,
		ResourceKindProducts,
		ResourceKindStorage,
		ResourceKindMonthlyEvents,
	}
	if !lo.Contains(allowed, r) {
		return ierr.NewError("invalid resource kind").
			WithHint("Invalid resource kind").
			WithReportableDetails(map[string]any{
				"resource":          r,
				"allowed_resources": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// FeatureName identifies a boolean plan feature flag.
type FeatureName string

const (
	FeatureFDACompliance  FeatureName = "fda_compliance"
	FeatureAIAgent        FeatureName = "ai_agent"
	FeatureCTETracking    FeatureName = "cte_tracking"
	FeatureReporting      FeatureName = "reporting"
	FeatureAPIAccess      FeatureName = "api_access"
	FeatureCustomBranding FeatureName = "custom_branding"
)

func (f FeatureName) String() string {
	return string(f)
}

func (f FeatureName) Validate() error {
	allowed := []FeatureName{
		FeatureFDACompliance,
		FeatureAIAgent,
		FeatureCTETracking,
		FeatureReporting,
		FeatureAPIAccess,
		FeatureCustomBranding,
	}
	if !lo.Contains(allowed, f) {
		return ierr.NewError("invalid feature name").
			WithHint("Invalid feature name").
			WithReportableDetails(map[string]any{
				"feature":          f,
				"allowed_features": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// WarningLevel classifies how close a tenant is to a quota limit.
type WarningLevel string

const (
	WarningLevelSafe     WarningLevel = "safe"
	WarningLevelWarning  WarningLevel = "warning"
	WarningLevelCritical WarningLevel = "critical"
)

func (w WarningLevel) String() string {
	return string(w)
}
