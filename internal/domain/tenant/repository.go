package tenant

import (
	"context"
	"time"

	"github.com/tracegate/tracegate/internal/types"
)

// Repository defines the interface for tenant storage operations
type Repository interface {
	Create(ctx context.Context, t *Tenant) error
	Get(ctx context.Context, id string) (*Tenant, error)
	Update(ctx context.Context, t *Tenant) error

	// ListSweepDue returns tenants whose trial or subscription window has
	// elapsed as of now, in ID order, starting after afterID (empty for
	// the first page). Keyset pagination: transitioned tenants drop out
	// of the predicate between batches, so an offset would skip due rows.
	// Only trialing and active tenants are returned.
	ListSweepDue(ctx context.Context, now time.Time, limit int, afterID string) ([]*Tenant, error)

	// TransitionSubscription persists t's subscription fields only when
	// the stored row still carries the expected status. It returns false
	// when the conditional update matched no row, which means a
	// concurrent sweep or an explicit action got there first.
	TransitionSubscription(ctx context.Context, t *Tenant, expected types.SubscriptionStatus) (bool, error)
}
