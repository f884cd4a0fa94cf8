package plan

import "context"

// Repository defines the interface for plan lookups. Plans are static
// reference data, so lookups are pure and side-effect free.
type Repository interface {
	GetByCode(ctx context.Context, code string) (*Plan, error)
	List(ctx context.Context) ([]*Plan, error)
}
