package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/tracegate/tracegate/internal/api/dto"
	"github.com/tracegate/tracegate/internal/domain/tenant"
	ierr "github.com/tracegate/tracegate/internal/errors"
	"github.com/tracegate/tracegate/internal/types"
)

// SubscriptionLifecycleService drives the tenant subscription state
// machine: none -> trial -> active -> expired, with cancelled reachable
// from trial or active. Every transition is a conditional update keyed
// on the expected current status, so overlapping sweeps and explicit
// actions cannot apply the same transition twice.
type SubscriptionLifecycleService interface {
	StartTrial(ctx context.Context, tenantID string, req dto.StartTrialRequest) (*dto.SubscriptionResponse, error)
	Activate(ctx context.Context, tenantID string) (*dto.SubscriptionResponse, error)
	Cancel(ctx context.Context, tenantID string) (*dto.SubscriptionResponse, error)
	GetSubscription(ctx context.Context, tenantID string) (*dto.SubscriptionResponse, error)
	GetDaysRemaining(ctx context.Context, tenantID string) (*int, error)

	// RunLifecycleSweep applies every due transition. Idempotent: a
	// second run with no intervening time change is a no-op. Safe under
	// overlapping invocations per the conditional transition above.
	RunLifecycleSweep(ctx context.Context) (*dto.LifecycleSweepResponse, error)
}

type subscriptionLifecycleService struct {
	ServiceParams
}

func NewSubscriptionLifecycleService(params ServiceParams) SubscriptionLifecycleService {
	return &subscriptionLifecycleService{ServiceParams: params}
}

func (s *subscriptionLifecycleService) StartTrial(ctx context.Context, tenantID string, req dto.StartTrialRequest) (*dto.SubscriptionResponse, error) {
	if _, err := s.PlanRepo.GetByCode(ctx, req.PlanCode); err != nil {
		return nil, err
	}

	t, err := s.TenantRepo.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if !t.SubscriptionStatus.CanTransitionTo(types.SubscriptionStatusTrial) {
		return nil, ierr.NewError("cannot start trial").
			WithHintf("Tenant subscription is %s", t.SubscriptionStatus).
			WithReportableDetails(map[string]any{
				"tenant_id": tenantID,
				"status":    t.SubscriptionStatus,
			}).
			Mark(ierr.ErrInvalidState)
	}

	now := nowUTC()
	expected := t.SubscriptionStatus
	t.PlanCode = req.PlanCode
	t.SubscriptionStatus = types.SubscriptionStatusTrial
	t.TrialStart = lo.ToPtr(now)
	t.TrialEnd = lo.ToPtr(now.AddDate(0, 0, s.Config.Billing.TrialPeriodDays))

	if err := s.applyTransition(ctx, t, expected); err != nil {
		return nil, err
	}

	s.Logger.Infow("started trial",
		"tenant_id", tenantID, "plan_code", req.PlanCode, "trial_end", t.TrialEnd)
	return s.toResponse(t), nil
}

func (s *subscriptionLifecycleService) Activate(ctx context.Context, tenantID string) (*dto.SubscriptionResponse, error) {
	t, err := s.TenantRepo.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if !t.SubscriptionStatus.CanTransitionTo(types.SubscriptionStatusActive) {
		return nil, ierr.NewError("cannot activate subscription").
			WithHintf("Tenant subscription is %s", t.SubscriptionStatus).
			WithReportableDetails(map[string]any{
				"tenant_id": tenantID,
				"status":    t.SubscriptionStatus,
			}).
			Mark(ierr.ErrInvalidState)
	}
	if !t.HasPaymentMethod {
		return nil, ierr.NewError("no payment method on file").
			WithHint("A payment method is required to activate a subscription").
			WithReportableDetails(map[string]any{"tenant_id": tenantID}).
			Mark(ierr.ErrInvalidState)
	}

	expected := t.SubscriptionStatus
	s.setActive(t, nowUTC())
	if err := s.applyTransition(ctx, t, expected); err != nil {
		return nil, err
	}

	s.Logger.Infow("activated subscription",
		"tenant_id", tenantID, "subscription_end", t.SubscriptionEnd)
	return s.toResponse(t), nil
}

func (s *subscriptionLifecycleService) Cancel(ctx context.Context, tenantID string) (*dto.SubscriptionResponse, error) {
	t, err := s.TenantRepo.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if !t.SubscriptionStatus.CanTransitionTo(types.SubscriptionStatusCancelled) {
		return nil, ierr.NewError("cannot cancel subscription").
			WithHintf("Tenant subscription is %s", t.SubscriptionStatus).
			WithReportableDetails(map[string]any{
				"tenant_id": tenantID,
				"status":    t.SubscriptionStatus,
			}).
			Mark(ierr.ErrInvalidState)
	}

	expected := t.SubscriptionStatus
	t.SubscriptionStatus = types.SubscriptionStatusCancelled
	if err := s.applyTransition(ctx, t, expected); err != nil {
		return nil, err
	}

	s.Logger.Infow("cancelled subscription", "tenant_id", tenantID)
	return s.toResponse(t), nil
}

func (s *subscriptionLifecycleService) GetSubscription(ctx context.Context, tenantID string) (*dto.SubscriptionResponse, error) {
	t, err := s.TenantRepo.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(t), nil
}

// GetDaysRemaining returns whole days until the relevant end date,
// rounded up and clamped at zero, or nil when the tenant has no trial or
// subscription end date.
func (s *subscriptionLifecycleService) GetDaysRemaining(ctx context.Context, tenantID string) (*int, error) {
	t, err := s.TenantRepo.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	end := t.RelevantEndDate()
	if end == nil {
		return nil, nil
	}
	return lo.ToPtr(types.DaysUntil(nowUTC(), *end)), nil
}

func (s *subscriptionLifecycleService) RunLifecycleSweep(ctx context.Context) (*dto.LifecycleSweepResponse, error) {
	batchSize := s.Config.Billing.SweepBatchSize
	now := nowUTC()

	s.Logger.Infow("starting subscription lifecycle sweep", "current_time", now)

	response := &dto.LifecycleSweepResponse{
		Errors:  make([]*dto.SweepErrorItem, 0),
		StartAt: now,
	}

	// keyset pagination: transitioned tenants drop out of the due
	// predicate, so advance by the last seen ID rather than an offset
	afterID := ""
	for {
		tenants, err := s.TenantRepo.ListSweepDue(ctx, now, batchSize, afterID)
		if err != nil {
			return response, err
		}
		if len(tenants) == 0 {
			break
		}

		s.Logger.Infow("processing tenant batch",
			"batch_size", len(tenants), "after_id", afterID)

		for _, t := range tenants {
			if err := s.sweepTenant(ctx, t, now, response); err != nil {
				// isolate per-tenant failures, the sweep continues
				s.Logger.Errorw("failed to sweep tenant",
					"tenant_id", t.ID, "error", err)
				response.Errors = append(response.Errors, &dto.SweepErrorItem{
					TenantID: t.ID,
					Error:    err.Error(),
				})
			}
		}

		afterID = tenants[len(tenants)-1].ID
		if len(tenants) < batchSize {
			break
		}
	}

	response.CompletedAt = nowUTC()
	s.Logger.Infow("completed subscription lifecycle sweep",
		"transitioned", response.Transitioned,
		"expired", response.Expired,
		"failed", len(response.Errors))
	return response, nil
}

// sweepTenant applies at most one transition to a tenant. A conditional
// update that matches no row means another sweep or an explicit action
// already moved the tenant; that is not an error and counts nothing.
func (s *subscriptionLifecycleService) sweepTenant(ctx context.Context, t *tenant.Tenant, now time.Time, response *dto.LifecycleSweepResponse) error {
	switch {
	case t.IsTrialElapsed(now) && t.HasPaymentMethod:
		expected := t.SubscriptionStatus
		s.setActive(t, now)
		applied, err := s.TenantRepo.TransitionSubscription(ctx, t, expected)
		if err != nil {
			return err
		}
		if applied {
			response.Transitioned++
			s.Logger.Infow("trial converted to active",
				"tenant_id", t.ID, "subscription_end", t.SubscriptionEnd)
		}
		return nil

	case t.IsTrialElapsed(now):
		// trial lapsed with no payment method: demote to expired once
		// the grace period has run out, never leave it dangling
		grace := time.Duration(s.Config.Billing.TrialGracePeriodDays) * 24 * time.Hour
		if t.TrialEnd.Add(grace).After(now) {
			return nil
		}
		return s.expireTenant(ctx, t, response)

	case t.IsSubscriptionElapsed(now):
		return s.expireTenant(ctx, t, response)

	default:
		return nil
	}
}

func (s *subscriptionLifecycleService) expireTenant(ctx context.Context, t *tenant.Tenant, response *dto.LifecycleSweepResponse) error {
	expected := t.SubscriptionStatus
	t.SubscriptionStatus = types.SubscriptionStatusExpired

	applied, err := s.TenantRepo.TransitionSubscription(ctx, t, expected)
	if err != nil {
		return err
	}
	if applied {
		response.Expired++
		s.Logger.Infow("subscription expired", "tenant_id", t.ID, "from", expected)
	}
	return nil
}

func (s *subscriptionLifecycleService) setActive(t *tenant.Tenant, now time.Time) {
	t.SubscriptionStatus = types.SubscriptionStatusActive
	t.SubscriptionStart = lo.ToPtr(now)
	t.SubscriptionEnd = lo.ToPtr(now.AddDate(0, 0, s.Config.Billing.SubscriptionPeriodDays))
}

// applyTransition wraps the conditional update for explicit actions,
// where losing the race surfaces as an invalid state to the caller.
func (s *subscriptionLifecycleService) applyTransition(ctx context.Context, t *tenant.Tenant, expected types.SubscriptionStatus) error {
	applied, err := s.TenantRepo.TransitionSubscription(ctx, t, expected)
	if err != nil {
		return err
	}
	if !applied {
		return ierr.NewError("subscription changed concurrently").
			WithHint("The subscription was modified by another request, retry").
			WithReportableDetails(map[string]any{
				"tenant_id": t.ID,
				"expected":  expected,
			}).
			Mark(ierr.ErrInvalidState)
	}
	return nil
}

func (s *subscriptionLifecycleService) toResponse(t *tenant.Tenant) *dto.SubscriptionResponse {
	var days *int
	if end := t.RelevantEndDate(); end != nil {
		days = lo.ToPtr(types.DaysUntil(nowUTC(), *end))
	}
	return dto.NewSubscriptionResponse(t, days)
}
