package usage

import (
	"context"
	"time"
)

// Repository aggregates current resource counts for a tenant from the
// persistence layer. All queries are read-only; failures surface as
// database errors and are never silently defaulted to zero.
type Repository interface {
	CountUsers(ctx context.Context, tenantID string) (int64, error)
	CountFacilities(ctx context.Context, tenantID string) (int64, error)
	CountProducts(ctx context.Context, tenantID string) (int64, error)

	// SumStorageBytes sums stored document sizes for the tenant.
	SumStorageBytes(ctx context.Context, tenantID string) (int64, error)

	// CountEventsSince counts tracking events created since the given
	// instant. Callers pass the start of the current UTC calendar month.
	CountEventsSince(ctx context.Context, tenantID string, since time.Time) (int64, error)
}
