package service

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
	"github.com/tracegate/tracegate/internal/api/dto"
	"github.com/tracegate/tracegate/internal/config"
	"github.com/tracegate/tracegate/internal/domain/tenant"
	ierr "github.com/tracegate/tracegate/internal/errors"
	"github.com/tracegate/tracegate/internal/testutil"
	"github.com/tracegate/tracegate/internal/types"
)

type LifecycleServiceSuite struct {
	testutil.BaseServiceTestSuite
	service    SubscriptionLifecycleService
	tenantRepo *testutil.InMemoryTenantStore
}

func TestSubscriptionLifecycleService(t *testing.T) {
	suite.Run(t, new(LifecycleServiceSuite))
}

func (s *LifecycleServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService()
}

func (s *LifecycleServiceSuite) setupService() {
	s.tenantRepo = s.GetStores().TenantRepo.(*testutil.InMemoryTenantStore)
	s.service = NewSubscriptionLifecycleService(s.serviceParams(s.GetConfig()))
}

func (s *LifecycleServiceSuite) serviceParams(cfg *config.Configuration) ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
		Logger:     s.GetLogger(),
		Config:     cfg,
		DB:         s.GetDB(),
		Cache:      s.GetCache(),
		TenantRepo: stores.TenantRepo,
		PlanRepo:   stores.PlanRepo,
		LotRepo:    stores.LotRepo,
		CTERepo:    stores.CTERepo,
		UsageRepo:  stores.UsageRepo,
	}
}

func (s *LifecycleServiceSuite) createTenant(id string, status types.SubscriptionStatus, hasPayment bool) *tenant.Tenant {
	t := &tenant.Tenant{
		ID:                 id,
		Name:               "Tenant " + id,
		SubscriptionStatus: status,
		HasPaymentMethod:   hasPayment,
		Status:             types.StatusPublished,
		CreatedAt:          s.GetNow(),
		UpdatedAt:          s.GetNow(),
	}
	if status == types.SubscriptionStatusTrial {
		t.PlanCode = "growth"
		t.TrialStart = lo.ToPtr(s.GetNow().AddDate(0, 0, -14))
		t.TrialEnd = lo.ToPtr(s.GetNow().AddDate(0, 0, 14))
	}
	s.NoError(s.tenantRepo.Create(s.GetContext(), t))
	return t
}

func (s *LifecycleServiceSuite) expireTrialAt(id string, trialEnd time.Time) {
	t, err := s.tenantRepo.Get(s.GetContext(), id)
	s.NoError(err)
	t.TrialEnd = lo.ToPtr(trialEnd)
	s.NoError(s.tenantRepo.Update(s.GetContext(), t))
}

func (s *LifecycleServiceSuite) TestStartTrial() {
	s.createTenant("tenant_1", types.SubscriptionStatusNone, false)

	resp, err := s.service.StartTrial(s.GetContext(), "tenant_1", dto.StartTrialRequest{PlanCode: "growth"})
	s.NoError(err)
	s.Equal(types.SubscriptionStatusTrial, resp.SubscriptionStatus)
	s.Equal("growth", resp.PlanCode)
	s.NotNil(resp.TrialEnd)
	s.NotNil(resp.DaysRemaining)
	s.Equal(s.GetConfig().Billing.TrialPeriodDays, *resp.DaysRemaining)
}

func (s *LifecycleServiceSuite) TestStartTrialUnknownPlan() {
	s.createTenant("tenant_1", types.SubscriptionStatusNone, false)

	resp, err := s.service.StartTrial(s.GetContext(), "tenant_1", dto.StartTrialRequest{PlanCode: "platinum"})
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsNotFound(err))
}

func (s *LifecycleServiceSuite) TestStartTrialFromTerminalState() {
	s.createTenant("tenant_1", types.SubscriptionStatusExpired, false)

	resp, err := s.service.StartTrial(s.GetContext(), "tenant_1", dto.StartTrialRequest{PlanCode: "growth"})
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsInvalidState(err))
}

func (s *LifecycleServiceSuite) TestActivateRequiresPaymentMethod() {
	s.createTenant("tenant_1", types.SubscriptionStatusTrial, false)

	resp, err := s.service.Activate(s.GetContext(), "tenant_1")
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsInvalidState(err))
}

func (s *LifecycleServiceSuite) TestActivateFromTrial() {
	s.createTenant("tenant_1", types.SubscriptionStatusTrial, true)

	resp, err := s.service.Activate(s.GetContext(), "tenant_1")
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, resp.SubscriptionStatus)
	s.NotNil(resp.SubscriptionEnd)
	s.NotNil(resp.DaysRemaining)
	s.Equal(s.GetConfig().Billing.SubscriptionPeriodDays, *resp.DaysRemaining)
}

func (s *LifecycleServiceSuite) TestCancel() {
	s.createTenant("tenant_1", types.SubscriptionStatusTrial, false)

	resp, err := s.service.Cancel(s.GetContext(), "tenant_1")
	s.NoError(err)
	s.Equal(types.SubscriptionStatusCancelled, resp.SubscriptionStatus)

	// cancelled is terminal
	resp, err = s.service.Cancel(s.GetContext(), "tenant_1")
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsInvalidState(err))
}

func (s *LifecycleServiceSuite) TestGetSubscriptionUnknownTenant() {
	resp, err := s.service.GetSubscription(s.GetContext(), "tenant_missing")
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsNotFound(err))
}

func (s *LifecycleServiceSuite) TestSweepConvertsAndExpires() {
	// trial elapsed with a payment method converts to active
	s.createTenant("tenant_1", types.SubscriptionStatusTrial, true)
	s.expireTrialAt("tenant_1", s.GetNow().AddDate(0, 0, -1))

	// trial elapsed without payment expires (default grace is zero)
	s.createTenant("tenant_2", types.SubscriptionStatusTrial, false)
	s.expireTrialAt("tenant_2", s.GetNow().AddDate(0, 0, -1))

	// active subscription past its window expires
	active := s.createTenant("tenant_3", types.SubscriptionStatusActive, true)
	active.SubscriptionStart = lo.ToPtr(s.GetNow().AddDate(0, 0, -31))
	active.SubscriptionEnd = lo.ToPtr(s.GetNow().AddDate(0, 0, -1))
	s.NoError(s.tenantRepo.Update(s.GetContext(), active))

	// current trial is left alone
	s.createTenant("tenant_4", types.SubscriptionStatusTrial, false)

	resp, err := s.service.RunLifecycleSweep(s.GetContext())
	s.NoError(err)
	s.Equal(1, resp.Transitioned)
	s.Equal(2, resp.Expired)
	s.Empty(resp.Errors)

	converted, err := s.tenantRepo.Get(s.GetContext(), "tenant_1")
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, converted.SubscriptionStatus)
	s.NotNil(converted.SubscriptionEnd)

	expired, err := s.tenantRepo.Get(s.GetContext(), "tenant_2")
	s.NoError(err)
	s.Equal(types.SubscriptionStatusExpired, expired.SubscriptionStatus)

	untouched, err := s.tenantRepo.Get(s.GetContext(), "tenant_4")
	s.NoError(err)
	s.Equal(types.SubscriptionStatusTrial, untouched.SubscriptionStatus)
}

func (s *LifecycleServiceSuite) TestStartTrialPersistsPlanInOneWrite() {
	// the conditional transition itself carries the plan code; nothing
	// rewrites the row afterwards
	s.createTenant("tenant_1", types.SubscriptionStatusNone, false)

	_, err := s.service.StartTrial(s.GetContext(), "tenant_1", dto.StartTrialRequest{PlanCode: "growth"})
	s.NoError(err)

	stored, err := s.tenantRepo.Get(s.GetContext(), "tenant_1")
	s.NoError(err)
	s.Equal("growth", stored.PlanCode)
	s.Equal(types.SubscriptionStatusTrial, stored.SubscriptionStatus)
	s.NotNil(stored.TrialEnd)
}

func (s *LifecycleServiceSuite) TestSweepDrainsDueSetAcrossBatches() {
	// tenants converted in one batch leave the due set, shifting later
	// pages; the sweep must still reach every due tenant
	cfg := *s.GetConfig()
	cfg.Billing.SweepBatchSize = 2
	service := NewSubscriptionLifecycleService(s.serviceParams(&cfg))

	for _, id := range []string{"tenant_1", "tenant_2", "tenant_3", "tenant_4"} {
		s.createTenant(id, types.SubscriptionStatusTrial, true)
		s.expireTrialAt(id, s.GetNow().AddDate(0, 0, -1))
	}

	resp, err := service.RunLifecycleSweep(s.GetContext())
	s.NoError(err)
	s.Equal(4, resp.Transitioned)
	s.Equal(0, resp.Expired)
	s.Empty(resp.Errors)

	for _, id := range []string{"tenant_1", "tenant_2", "tenant_3", "tenant_4"} {
		converted, err := s.tenantRepo.Get(s.GetContext(), id)
		s.NoError(err)
		s.Equal(types.SubscriptionStatusActive, converted.SubscriptionStatus)
	}
}

func (s *LifecycleServiceSuite) TestSweepIsIdempotent() {
	s.createTenant("tenant_1", types.SubscriptionStatusTrial, true)
	s.expireTrialAt("tenant_1", s.GetNow().AddDate(0, 0, -1))

	first, err := s.service.RunLifecycleSweep(s.GetContext())
	s.NoError(err)
	s.Equal(1, first.Transitioned)

	second, err := s.service.RunLifecycleSweep(s.GetContext())
	s.NoError(err)
	s.Equal(0, second.Transitioned)
	s.Equal(0, second.Expired)
}

func (s *LifecycleServiceSuite) TestSweepHonorsTrialGracePeriod() {
	cfg := *s.GetConfig()
	cfg.Billing.TrialGracePeriodDays = 5
	service := NewSubscriptionLifecycleService(s.serviceParams(&cfg))

	// two days past trial end, still inside the five day grace window
	s.createTenant("tenant_1", types.SubscriptionStatusTrial, false)
	s.expireTrialAt("tenant_1", s.GetNow().AddDate(0, 0, -2))

	// six days past trial end, grace exhausted
	s.createTenant("tenant_2", types.SubscriptionStatusTrial, false)
	s.expireTrialAt("tenant_2", s.GetNow().AddDate(0, 0, -6))

	resp, err := service.RunLifecycleSweep(s.GetContext())
	s.NoError(err)
	s.Equal(0, resp.Transitioned)
	s.Equal(1, resp.Expired)

	graced, err := s.tenantRepo.Get(s.GetContext(), "tenant_1")
	s.NoError(err)
	s.Equal(types.SubscriptionStatusTrial, graced.SubscriptionStatus)

	expired, err := s.tenantRepo.Get(s.GetContext(), "tenant_2")
	s.NoError(err)
	s.Equal(types.SubscriptionStatusExpired, expired.SubscriptionStatus)
}

func (s *LifecycleServiceSuite) TestGetDaysRemaining() {
	s.createTenant("tenant_1", types.SubscriptionStatusTrial, false)

	days, err := s.service.GetDaysRemaining(s.GetContext(), "tenant_1")
	s.NoError(err)
	s.NotNil(days)
	s.Equal(14, *days)

	// no window, no countdown
	s.createTenant("tenant_2", types.SubscriptionStatusNone, false)
	days, err = s.service.GetDaysRemaining(s.GetContext(), "tenant_2")
	s.NoError(err)
	s.Nil(days)
}
