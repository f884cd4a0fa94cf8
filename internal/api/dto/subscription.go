package dto

import (
	"time"

	"github.com/tracegate/tracegate/internal/domain/tenant"
	"github.com/tracegate/tracegate/internal/types"
)

type SubscriptionResponse struct {
	TenantID           string                   `json:"tenant_id"`
	PlanCode           string                   `json:"plan_code"`
	SubscriptionStatus types.SubscriptionStatus `json:"subscription_status"`
	TrialEnd           *time.Time               `json:"trial_end,omitempty"`
	SubscriptionEnd    *time.Time               `json:"subscription_end,omitempty"`
	HasPaymentMethod   bool                     `json:"has_payment_method"`
	DaysRemaining      *int                     `json:"days_remaining,omitempty"`
}

func NewSubscriptionResponse(t *tenant.Tenant, daysRemaining *int) *SubscriptionResponse {
	return &SubscriptionResponse{
		TenantID:           t.ID,
		PlanCode:           t.PlanCode,
		SubscriptionStatus: t.SubscriptionStatus,
		TrialEnd:           t.TrialEnd,
		SubscriptionEnd:    t.SubscriptionEnd,
		HasPaymentMethod:   t.HasPaymentMethod,
		DaysRemaining:      daysRemaining,
	}
}

type StartTrialRequest struct {
	PlanCode string `json:"plan_code" binding:"required"`
}

// SweepErrorItem reports a per-tenant failure isolated during a sweep.
type SweepErrorItem struct {
	TenantID string `json:"tenant_id"`
	Error    string `json:"error"`
}

// LifecycleSweepResponse summarizes one lifecycle sweep run. Repeating a
// sweep with no intervening time change yields zero counts.
type LifecycleSweepResponse struct {
	Transitioned int               `json:"transitioned"`
	Expired      int               `json:"expired"`
	Errors       []*SweepErrorItem `json:"errors,omitempty"`
	StartAt      time.Time         `json:"start_at"`
	CompletedAt  time.Time         `json:"completed_at"`
}
