package service

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/tracegate/tracegate/internal/domain/cte"
	"github.com/tracegate/tracegate/internal/domain/tenant"
	ierr "github.com/tracegate/tracegate/internal/errors"
	"github.com/tracegate/tracegate/internal/testutil"
	"github.com/tracegate/tracegate/internal/types"
)

type QuotaServiceSuite struct {
	testutil.BaseServiceTestSuite
	service   QuotaService
	usageRepo *testutil.InMemoryUsageStore
}

func TestQuotaService(t *testing.T) {
	suite.Run(t, new(QuotaServiceSuite))
}

func (s *QuotaServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService()
}

func (s *QuotaServiceSuite) setupService() {
	stores := s.GetStores()
	s.usageRepo = stores.UsageRepo.(*testutil.InMemoryUsageStore)
	s.service = NewQuotaService(ServiceParams{
		Logger:     s.GetLogger(),
		Config:     s.GetConfig(),
		DB:         s.GetDB(),
		Cache:      s.GetCache(),
		TenantRepo: stores.TenantRepo,
		PlanRepo:   stores.PlanRepo,
		LotRepo:    stores.LotRepo,
		CTERepo:    stores.CTERepo,
		UsageRepo:  stores.UsageRepo,
	})
}

func (s *QuotaServiceSuite) createTenant(status types.SubscriptionStatus, planCode string) *tenant.Tenant {
	t := &tenant.Tenant{
		ID:                 types.DefaultTenantID,
		Name:               "Test Tenant",
		PlanCode:           planCode,
		SubscriptionStatus: status,
		Status:             types.StatusPublished,
		CreatedAt:          s.GetNow(),
		UpdatedAt:          s.GetNow(),
	}
	if status == types.SubscriptionStatusTrial {
		t.TrialStart = lo.ToPtr(s.GetNow())
		t.TrialEnd = lo.ToPtr(s.GetNow().AddDate(0, 0, 14))
	}
	s.NoError(s.GetStores().TenantRepo.Create(s.GetContext(), t))
	return t
}

func (s *QuotaServiceSuite) TestCheckQuotaAgainstPlanLimit() {
	s.createTenant(types.SubscriptionStatusTrial, "growth")
	s.usageRepo.SetUsers(types.DefaultTenantID, 10)

	resp, err := s.service.CheckQuota(s.GetContext(), types.DefaultTenantID, types.ResourceKindUsers)
	s.NoError(err)
	s.True(resp.Allowed)
	s.Equal(int64(10), resp.CurrentUsage)
	s.Equal(int64(25), resp.MaxAllowed)
	s.Equal(int64(15), resp.Remaining)
	s.Equal(types.WarningLevelSafe, resp.WarningLevel)
	s.Equal(types.SubscriptionStatusTrial, resp.SubscriptionStatus)
}

func (s *QuotaServiceSuite) TestCheckQuotaWarningBands() {
	s.createTenant(types.SubscriptionStatusActive, "growth")

	// growth allows 500 products
	testCases := []struct {
		name     string
		products int64
		expected types.WarningLevel
		allowed  bool
	}{
		{name: "just_below_warning", products: 374, expected: types.WarningLevelSafe, allowed: true},
		{name: "warning_lower_bound", products: 375, expected: types.WarningLevelWarning, allowed: true},
		{name: "just_below_critical", products: 449, expected: types.WarningLevelWarning, allowed: true},
		{name: "critical_lower_bound", products: 450, expected: types.WarningLevelCritical, allowed: true},
		{name: "at_limit", products: 500, expected: types.WarningLevelCritical, allowed: false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.usageRepo.SetProducts(types.DefaultTenantID, tc.products)

			resp, err := s.service.CheckQuota(s.GetContext(), types.DefaultTenantID, types.ResourceKindProducts)
			s.NoError(err)
			s.Equal(tc.expected, resp.WarningLevel)
			s.Equal(tc.allowed, resp.Allowed)
		})
	}
}

func (s *QuotaServiceSuite) TestCheckQuotaAtLimitLeavesNothingRemaining() {
	s.createTenant(types.SubscriptionStatusActive, "starter")
	s.usageRepo.SetUsers(types.DefaultTenantID, 5)

	resp, err := s.service.CheckQuota(s.GetContext(), types.DefaultTenantID, types.ResourceKindUsers)
	s.NoError(err)
	s.False(resp.Allowed)
	s.Equal(int64(0), resp.Remaining)
	s.Equal(float64(100), resp.PercentageUsed)
}

func (s *QuotaServiceSuite) TestCheckQuotaFreeTierFallback() {
	// a tenant that never subscribed gets the free-tier ceiling, not a
	// plan lookup
	s.createTenant(types.SubscriptionStatusNone, "")
	s.usageRepo.SetUsers(types.DefaultTenantID, 40)

	resp, err := s.service.CheckQuota(s.GetContext(), types.DefaultTenantID, types.ResourceKindUsers)
	s.NoError(err)
	s.True(resp.Allowed)
	s.Equal(s.GetConfig().Billing.FreeTierLimit, resp.MaxAllowed)
	s.Equal(types.SubscriptionStatusNone, resp.SubscriptionStatus)
}

func (s *QuotaServiceSuite) TestCheckQuotaExpiredTenantFallsBackToFreeTier() {
	s.createTenant(types.SubscriptionStatusExpired, "enterprise")
	s.usageRepo.SetProducts(types.DefaultTenantID, 150)

	resp, err := s.service.CheckQuota(s.GetContext(), types.DefaultTenantID, types.ResourceKindProducts)
	s.NoError(err)
	s.False(resp.Allowed)
	s.Equal(s.GetConfig().Billing.FreeTierLimit, resp.MaxAllowed)
}

func (s *QuotaServiceSuite) TestCheckQuotaStorageRoundsUp() {
	s.createTenant(types.SubscriptionStatusActive, "starter")

	// a single byte over 4GiB counts as 5GiB against a 5GiB ceiling
	s.usageRepo.SetStorageBytes(types.DefaultTenantID, 4*1024*1024*1024+1)

	resp, err := s.service.CheckQuota(s.GetContext(), types.DefaultTenantID, types.ResourceKindStorage)
	s.NoError(err)
	s.Equal(int64(5), resp.CurrentUsage)
	s.False(resp.Allowed)
}

func (s *QuotaServiceSuite) TestCheckQuotaInvalidResource() {
	s.createTenant(types.SubscriptionStatusActive, "growth")

	resp, err := s.service.CheckQuota(s.GetContext(), types.DefaultTenantID, types.ResourceKind("widgets"))
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsValidation(err))
}

func (s *QuotaServiceSuite) TestCheckQuotaFailsClosedOnUnreadableUsage() {
	// an unreadable usage store denies with the error surfaced, never a
	// silent zero that would let the check pass
	s.createTenant(types.SubscriptionStatusActive, "growth")
	s.usageRepo.SetError(ierr.NewError("usage query failed").
		WithHint("Failed to count users").
		Mark(ierr.ErrDatabase))

	resp, err := s.service.CheckQuota(s.GetContext(), types.DefaultTenantID, types.ResourceKindUsers)
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsDatabase(err))

	// reads recover once the store does
	s.usageRepo.SetError(nil)
	s.usageRepo.SetUsers(types.DefaultTenantID, 1)
	resp, err = s.service.CheckQuota(s.GetContext(), types.DefaultTenantID, types.ResourceKindUsers)
	s.NoError(err)
	s.True(resp.Allowed)
}

func (s *QuotaServiceSuite) TestCheckQuotaUnknownTenant() {
	resp, err := s.service.CheckQuota(s.GetContext(), "tenant_missing", types.ResourceKindUsers)
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsNotFound(err))
}

func (s *QuotaServiceSuite) TestHasFeatureAccess() {
	s.createTenant(types.SubscriptionStatusTrial, "growth")

	testCases := []struct {
		name     string
		feature  types.FeatureName
		expected bool
	}{
		{name: "enabled_feature", feature: types.FeatureReporting, expected: true},
		{name: "disabled_feature", feature: types.FeatureCustomBranding, expected: false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			hasAccess, err := s.service.HasFeatureAccess(s.GetContext(), types.DefaultTenantID, tc.feature)
			s.NoError(err)
			s.Equal(tc.expected, hasAccess)
		})
	}
}

func (s *QuotaServiceSuite) TestHasFeatureAccessWithoutEntitlement() {
	// expired tenants keep their plan code but lose every feature flag
	s.createTenant(types.SubscriptionStatusExpired, "enterprise")

	hasAccess, err := s.service.HasFeatureAccess(s.GetContext(), types.DefaultTenantID, types.FeatureCustomBranding)
	s.NoError(err)
	s.False(hasAccess)
}

func (s *QuotaServiceSuite) TestGetUsageSnapshot() {
	s.createTenant(types.SubscriptionStatusActive, "growth")
	s.usageRepo.SetUsers(types.DefaultTenantID, 7)
	s.usageRepo.SetFacilities(types.DefaultTenantID, 2)
	s.usageRepo.SetProducts(types.DefaultTenantID, 31)
	s.usageRepo.SetStorageBytes(types.DefaultTenantID, 2*1024*1024*1024)

	resp, err := s.service.GetUsage(s.GetContext(), types.DefaultTenantID)
	s.NoError(err)
	s.Equal(int64(7), resp.CurrentUsers)
	s.Equal(int64(2), resp.CurrentFacilities)
	s.Equal(int64(31), resp.CurrentProducts)
	s.True(resp.CurrentStorageGb.Equal(decimal.NewFromInt(2)))
	s.Equal(int64(0), resp.CurrentMonthlyEvents)
}

func (s *QuotaServiceSuite) TestMonthlyEventsCountedFromStartOfMonth() {
	s.createTenant(types.SubscriptionStatusActive, "growth")

	now := s.GetNow()
	insertEvent := func(recordedAt time.Time) {
		s.NoError(s.GetStores().CTERepo.Insert(s.GetContext(), &cte.Event{
			ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TRACKING_EVENT),
			TenantID:   types.DefaultTenantID,
			LotID:      "lot_1",
			Type:       types.CTETypePacking,
			Quantity:   decimal.NewFromInt(1),
			Unit:       "kg",
			OccurredAt: recordedAt,
			RecordedAt: recordedAt,
		}))
	}

	insertEvent(now)
	insertEvent(types.StartOfMonthUTC(now))
	// recorded before the month boundary, must not count
	insertEvent(types.StartOfMonthUTC(now).Add(-time.Hour))

	resp, err := s.service.CheckQuota(s.GetContext(), types.DefaultTenantID, types.ResourceKindMonthlyEvents)
	s.NoError(err)
	s.Equal(int64(2), resp.CurrentUsage)
}
