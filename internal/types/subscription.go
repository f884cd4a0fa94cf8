package types

import (
	ierr "github.com/tracegate/tracegate/internal/errors"
	"github.com/samber/lo"
)

// SubscriptionStatus is the status of a tenant's subscription.
// Trials convert to active once a payment method is on file, and both
// trials and active subscriptions expire once their window has elapsed.
// A tenant may re-subscribe after expiry or cancellation, which creates
// a new subscription record rather than resurrecting the old one.
type SubscriptionStatus string

const (
	SubscriptionStatusNone      SubscriptionStatus = "none"
	SubscriptionStatusTrial     SubscriptionStatus = "trial"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}

func (s SubscriptionStatus) Validate() error {
	allowed := []SubscriptionStatus{
		SubscriptionStatusNone,
		SubscriptionStatusTrial,
		SubscriptionStatusActive,
		SubscriptionStatusExpired,
		SubscriptionStatusCancelled,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid subscription status").
			WithHint("Invalid subscription status").
			WithReportableDetails(map[string]any{
				"status":         s,
				"allowed_status": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsTerminal reports whether the status admits no further automatic
// transitions. Expired and cancelled tenants are only revived by a new
// subscription record created upstream.
func (s SubscriptionStatus) IsTerminal() bool {
	return s == SubscriptionStatusExpired || s == SubscriptionStatusCancelled
}

// IsEntitled reports whether the status grants access to plan features
// and plan-level quota limits.
func (s SubscriptionStatus) IsEntitled() bool {
	return s == SubscriptionStatusTrial || s == SubscriptionStatusActive
}

// CanTransitionTo reports whether the state machine permits a transition
// from s to target.
func (s SubscriptionStatus) CanTransitionTo(target SubscriptionStatus) bool {
	switch s {
	case SubscriptionStatusNone:
		return target == SubscriptionStatusTrial || target == SubscriptionStatusActive
	case SubscriptionStatusTrial:
		return target == SubscriptionStatusActive ||
			target == SubscriptionStatusExpired ||
			target == SubscriptionStatusCancelled
	case SubscriptionStatusActive:
		return target == SubscriptionStatusExpired ||
			target == SubscriptionStatusCancelled
	default:
		return false
	}
}
