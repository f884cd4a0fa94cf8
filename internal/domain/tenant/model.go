package tenant

import (
	"time"

	ierr "github.com/tracegate/tracegate/internal/errors"
	"github.com/tracegate/tracegate/internal/types"
)

// Tenant represents a company account in the multi-tenant system along
// with its subscription window. Plan and payment records are owned by
// external billing flows; this core mutates subscription status and
// dates only.
type Tenant struct {
	ID                 string                   `db:"id" json:"id"`
	Name               string                   `db:"name" json:"name"`
	PlanCode           string                   `db:"plan_code" json:"plan_code"`
	SubscriptionStatus types.SubscriptionStatus `db:"subscription_status" json:"subscription_status"`
	TrialStart         *time.Time               `db:"trial_start" json:"trial_start,omitempty"`
	TrialEnd           *time.Time               `db:"trial_end" json:"trial_end,omitempty"`
	SubscriptionStart  *time.Time               `db:"subscription_start" json:"subscription_start,omitempty"`
	SubscriptionEnd    *time.Time               `db:"subscription_end" json:"subscription_end,omitempty"`
	HasPaymentMethod   bool                     `db:"has_payment_method" json:"has_payment_method"`
	Status             types.Status             `db:"status" json:"status"`
	CreatedAt          time.Time                `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time                `db:"updated_at" json:"updated_at"`
}

// Validate performs validation on the tenant
func (t *Tenant) Validate() error {
	if t.ID == "" {
		return ierr.NewError("tenant id is required").
			WithHint("Please provide a valid tenant ID").
			Mark(ierr.ErrValidation)
	}
	if err := t.SubscriptionStatus.Validate(); err != nil {
		return err
	}
	if t.SubscriptionStatus == types.SubscriptionStatusTrial && t.TrialEnd == nil {
		return ierr.NewError("trial tenant has no trial end date").
			WithHint("Trial subscriptions must carry a trial end date").
			WithReportableDetails(map[string]any{"tenant_id": t.ID}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsTrialElapsed reports whether the tenant is trialing and the trial
// window has passed as of now.
func (t *Tenant) IsTrialElapsed(now time.Time) bool {
	return t.SubscriptionStatus == types.SubscriptionStatusTrial &&
		t.TrialEnd != nil && !t.TrialEnd.After(now)
}

// IsSubscriptionElapsed reports whether the tenant is active and the
// subscription window has passed as of now. A renewal extends
// SubscriptionEnd upstream, which makes this false again.
func (t *Tenant) IsSubscriptionElapsed(now time.Time) bool {
	return t.SubscriptionStatus == types.SubscriptionStatusActive &&
		t.SubscriptionEnd != nil && !t.SubscriptionEnd.After(now)
}

// RelevantEndDate returns the end date governing the tenant's current
// subscription window, or nil when there is none.
func (t *Tenant) RelevantEndDate() *time.Time {
	switch t.SubscriptionStatus {
	case types.SubscriptionStatusTrial:
		return t.TrialEnd
	case types.SubscriptionStatusActive:
		return t.SubscriptionEnd
	default:
		return nil
	}
}
