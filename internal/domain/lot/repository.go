package lot

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tracegate/tracegate/internal/types"
)

// Repository defines the interface for lot storage operations.
//
// Reserve, Release and Ship must each be a single conditional update
// against the store ("decrement available where available >= qty") so
// that concurrent callers on the same lot serialize correctly: the loser
// of a race observes ErrInsufficientInventory or ErrInvalidState rather
// than corrupting the balance.
type Repository interface {
	Create(ctx context.Context, l *TraceabilityLot) error
	Get(ctx context.Context, id string) (*TraceabilityLot, error)

	// Reserve atomically moves qty from available to reserved and
	// returns the updated lot.
	Reserve(ctx context.Context, id string, qty decimal.Decimal) (*TraceabilityLot, error)

	// Release atomically moves qty from reserved back to available and
	// returns the updated lot.
	Release(ctx context.Context, id string, qty decimal.Decimal) (*TraceabilityLot, error)

	// Ship atomically moves qty from reserved to shipped and returns the
	// updated lot. Shipping consumes a prior reservation, it never
	// double-draws from available.
	Ship(ctx context.Context, id string, qty decimal.Decimal) (*TraceabilityLot, error)

	// UpdateStatus archives, expires or recalls a lot. Lots are never
	// physically deleted.
	UpdateStatus(ctx context.Context, id string, status types.LotStatus) error
}
