package service

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tracegate/tracegate/internal/api/dto"
	"github.com/tracegate/tracegate/internal/domain/tenant"
	"github.com/tracegate/tracegate/internal/domain/usage"
	"github.com/tracegate/tracegate/internal/types"
)

const bytesPerGb = int64(1024 * 1024 * 1024)

// QuotaService answers advisory quota and feature-access questions for a
// tenant. Checks are read-only and tolerate staleness: a pass is not a
// guarantee against concurrent passes, enforcement belongs to the
// mutating flow. The degrade policy is fail closed: when usage cannot be
// read the check errors out instead of defaulting to a number.
type QuotaService interface {
	CheckQuota(ctx context.Context, tenantID string, resource types.ResourceKind) (*dto.QuotaCheckResponse, error)
	HasFeatureAccess(ctx context.Context, tenantID string, feature types.FeatureName) (bool, error)
	GetUsage(ctx context.Context, tenantID string) (*dto.UsageSnapshotResponse, error)
}

type quotaService struct {
	ServiceParams
}

func NewQuotaService(params ServiceParams) QuotaService {
	return &quotaService{ServiceParams: params}
}

func (s *quotaService) CheckQuota(ctx context.Context, tenantID string, resource types.ResourceKind) (*dto.QuotaCheckResponse, error) {
	if err := resource.Validate(); err != nil {
		return nil, err
	}

	t, err := s.TenantRepo.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	maxAllowed, err := s.resolveLimit(ctx, t, resource)
	if err != nil {
		return nil, err
	}

	current, err := s.currentUsage(ctx, tenantID, resource)
	if err != nil {
		// fail closed: no silent default when usage is unreadable
		s.Logger.Errorw("quota check failed to read usage, denying",
			"tenant_id", tenantID, "resource", resource, "error", err)
		return nil, err
	}

	remaining := maxAllowed - current
	if remaining < 0 {
		remaining = 0
	}

	pct := float64(100)
	if maxAllowed > 0 {
		pct = float64(current) / float64(maxAllowed) * 100
	}

	return &dto.QuotaCheckResponse{
		Resource:           resource,
		Allowed:            current < maxAllowed,
		CurrentUsage:       current,
		MaxAllowed:         maxAllowed,
		Remaining:          remaining,
		PercentageUsed:     pct,
		WarningLevel:       WarningLevelForPercent(pct),
		SubscriptionStatus: t.SubscriptionStatus,
	}, nil
}

func (s *quotaService) HasFeatureAccess(ctx context.Context, tenantID string, feature types.FeatureName) (bool, error) {
	if err := feature.Validate(); err != nil {
		return false, err
	}

	t, err := s.TenantRepo.Get(ctx, tenantID)
	if err != nil {
		return false, err
	}

	// no entitled subscription means every feature flag is off
	if !t.SubscriptionStatus.IsEntitled() {
		return false, nil
	}

	p, err := s.PlanRepo.GetByCode(ctx, t.PlanCode)
	if err != nil {
		return false, err
	}
	return p.FeatureEnabled(feature)
}

func (s *quotaService) GetUsage(ctx context.Context, tenantID string) (*dto.UsageSnapshotResponse, error) {
	if _, err := s.TenantRepo.Get(ctx, tenantID); err != nil {
		return nil, err
	}

	now := nowUTC()
	snapshot := &usage.Snapshot{}

	var err error
	if snapshot.CurrentUsers, err = s.UsageRepo.CountUsers(ctx, tenantID); err != nil {
		return nil, err
	}
	if snapshot.CurrentFacilities, err = s.UsageRepo.CountFacilities(ctx, tenantID); err != nil {
		return nil, err
	}
	if snapshot.CurrentProducts, err = s.UsageRepo.CountProducts(ctx, tenantID); err != nil {
		return nil, err
	}

	storageBytes, err := s.UsageRepo.SumStorageBytes(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	snapshot.CurrentStorageGb = decimal.NewFromInt(storageBytes).
		Div(decimal.NewFromInt(bytesPerGb))

	if snapshot.CurrentMonthlyEvents, err = s.UsageRepo.CountEventsSince(ctx, tenantID, types.StartOfMonthUTC(now)); err != nil {
		return nil, err
	}

	return &dto.UsageSnapshotResponse{Snapshot: snapshot}, nil
}

// resolveLimit returns the plan ceiling for entitled tenants and the
// fixed free-tier ceiling otherwise.
func (s *quotaService) resolveLimit(ctx context.Context, t *tenant.Tenant, resource types.ResourceKind) (int64, error) {
	if !t.SubscriptionStatus.IsEntitled() {
		return s.Config.Billing.FreeTierLimit, nil
	}

	p, err := s.PlanRepo.GetByCode(ctx, t.PlanCode)
	if err != nil {
		return 0, err
	}
	return p.LimitFor(resource)
}

func (s *quotaService) currentUsage(ctx context.Context, tenantID string, resource types.ResourceKind) (int64, error) {
	switch resource {
	case types.ResourceKindUsers:
		return s.UsageRepo.CountUsers(ctx, tenantID)
	case types.ResourceKindFacilities:
		return s.UsageRepo.CountFacilities(ctx, tenantID)
	case types.ResourceKindProducts:
		return s.UsageRepo.CountProducts(ctx, tenantID)
	case types.ResourceKindStorage:
		storageBytes, err := s.UsageRepo.SumStorageBytes(ctx, tenantID)
		if err != nil {
			return 0, err
		}
		// whole gigabytes, rounded up, so a tenant a few bytes over a
		// ceiling counts against it
		return decimal.NewFromInt(storageBytes).
			Div(decimal.NewFromInt(bytesPerGb)).
			Ceil().IntPart(), nil
	default:
		return s.UsageRepo.CountEventsSince(ctx, tenantID, types.StartOfMonthUTC(nowUTC()))
	}
}

// WarningLevelForPercent classifies quota pressure. Bands are inclusive
// on their lower bound: <75 safe, 75-89 warning, >=90 critical.
func WarningLevelForPercent(pct float64) types.WarningLevel {
	switch {
	case pct >= 90:
		return types.WarningLevelCritical
	case pct >= 75:
		return types.WarningLevelWarning
	default:
		return types.WarningLevelSafe
	}
}
