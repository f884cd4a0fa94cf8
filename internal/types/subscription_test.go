package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    SubscriptionStatus
		to      SubscriptionStatus
		allowed bool
	}{
		{name: "none_to_trial", from: SubscriptionStatusNone, to: SubscriptionStatusTrial, allowed: true},
		{name: "none_to_active", from: SubscriptionStatusNone, to: SubscriptionStatusActive, allowed: true},
		{name: "none_to_expired", from: SubscriptionStatusNone, to: SubscriptionStatusExpired, allowed: false},
		{name: "trial_to_active", from: SubscriptionStatusTrial, to: SubscriptionStatusActive, allowed: true},
		{name: "trial_to_expired", from: SubscriptionStatusTrial, to: SubscriptionStatusExpired, allowed: true},
		{name: "trial_to_cancelled", from: SubscriptionStatusTrial, to: SubscriptionStatusCancelled, allowed: true},
		{name: "trial_to_none", from: SubscriptionStatusTrial, to: SubscriptionStatusNone, allowed: false},
		{name: "active_to_expired", from: SubscriptionStatusActive, to: SubscriptionStatusExpired, allowed: true},
		{name: "active_to_cancelled", from: SubscriptionStatusActive, to: SubscriptionStatusCancelled, allowed: true},
		{name: "active_to_trial", from: SubscriptionStatusActive, to: SubscriptionStatusTrial, allowed: false},
		{name: "expired_is_terminal", from: SubscriptionStatusExpired, to: SubscriptionStatusTrial, allowed: false},
		{name: "cancelled_is_terminal", from: SubscriptionStatusCancelled, to: SubscriptionStatusActive, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestSubscriptionStatusIsEntitled(t *testing.T) {
	assert.True(t, SubscriptionStatusTrial.IsEntitled())
	assert.True(t, SubscriptionStatusActive.IsEntitled())
	assert.False(t, SubscriptionStatusNone.IsEntitled())
	assert.False(t, SubscriptionStatusExpired.IsEntitled())
	assert.False(t, SubscriptionStatusCancelled.IsEntitled())
}

func TestSubscriptionStatusIsTerminal(t *testing.T) {
	assert.True(t, SubscriptionStatusExpired.IsTerminal())
	assert.True(t, SubscriptionStatusCancelled.IsTerminal())
	assert.False(t, SubscriptionStatusNone.IsTerminal())
	assert.False(t, SubscriptionStatusTrial.IsTerminal())
	assert.False(t, SubscriptionStatusActive.IsTerminal())
}

func TestSubscriptionStatusValidate(t *testing.T) {
	assert.NoError(t, SubscriptionStatusTrial.Validate())
	assert.Error(t, SubscriptionStatus("paused").Validate())
}
