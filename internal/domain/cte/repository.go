package cte

import (
	"context"
	"time"
)

// Repository defines the interface for tracking event storage operations
type Repository interface {
	Insert(ctx context.Context, e *Event) error
	ListByLot(ctx context.Context, lotID string) ([]*Event, error)

	// CountForTenantSince counts events recorded for a tenant since the
	// given instant. Drives the monthly-events quota.
	CountForTenantSince(ctx context.Context, tenantID string, since time.Time) (int64, error)
}
