package plan

import (
	"context"

	ierr "github.com/tracegate/tracegate/internal/errors"
)

// Plan codes available in the catalog
const (
	PlanCodeStarter    = "starter"
	PlanCodeGrowth     = "growth"
	PlanCodeEnterprise = "enterprise"
)

// catalog is the static plan catalog. An unknown code is an input
// validation error, not a system fault.
var catalog = []*Plan{
	{
		Code:        PlanCodeStarter,
		Name:        "Starter",
		Description: "Single-facility traceability for small producers",
		Limits: Limits{
			MaxUsers:         5,
			MaxFacilities:    1,
			MaxProducts:      50,
			MaxStorageGb:     5,
			MaxMonthlyEvents: 1000,
		},
		Features: Features{
			FDACompliance: true,
			CTETracking:   true,
		},
	},
	{
		Code:        PlanCodeGrowth,
		Name:        "Growth",
		Description: "Multi-facility traceability with reporting and API access",
		Limits: Limits{
			MaxUsers:         25,
			MaxFacilities:    5,
			MaxProducts:      500,
			MaxStorageGb:     50,
			MaxMonthlyEvents: 25000,
		},
		Features: Features{
			FDACompliance: true,
			AIAgent:       true,
			CTETracking:   true,
			Reporting:     true,
			APIAccess:     true,
		},
	},
	{
		Code:        PlanCodeEnterprise,
		Name:        "Enterprise",
		Description: "Full platform with custom branding for large supply chains",
		Limits: Limits{
			MaxUsers:         250,
			MaxFacilities:    50,
			MaxProducts:      10000,
			MaxStorageGb:     500,
			MaxMonthlyEvents: 1000000,
		},
		Features: Features{
			FDACompliance:  true,
			AIAgent:        true,
			CTETracking:    true,
			Reporting:      true,
			APIAccess:      true,
			CustomBranding: true,
		},
	},
}

type catalogRepository struct {
	byCode map[string]*Plan
}

// NewCatalogRepository returns a Repository backed by the built-in
// static catalog.
func NewCatalogRepository() Repository {
	byCode := make(map[string]*Plan, len(catalog))
	for _, p := range catalog {
		byCode[p.Code] = p
	}
	return &catalogRepository{byCode: byCode}
}

func (r *catalogRepository) GetByCode(ctx context.Context, code string) (*Plan, error) {
	p, ok := r.byCode[code]
	if !ok {
		return nil, ierr.NewError("plan not found").
			WithHintf("No plan with code %s", code).
			WithReportableDetails(map[string]any{"plan_code": code}).
			Mark(ierr.ErrNotFound)
	}
	// copy to keep the catalog immutable
	cp := *p
	return &cp, nil
}

func (r *catalogRepository) List(ctx context.Context) ([]*Plan, error) {
	plans := make([]*Plan, 0, len(catalog))
	for _, p := range catalog {
		cp := *p
		plans = append(plans, &cp)
	}
	return plans, nil
}
