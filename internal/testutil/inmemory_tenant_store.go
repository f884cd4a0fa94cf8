package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tracegate/tracegate/internal/domain/tenant"
	ierr "github.com/tracegate/tracegate/internal/errors"
	"github.com/tracegate/tracegate/internal/types"
)

// InMemoryTenantStore provides an in-memory implementation of
// tenant.Repository. TransitionSubscription performs the same
// compare-and-swap the postgres implementation does, under the store
// mutex, so concurrency tests exercise real loser paths.
type InMemoryTenantStore struct {
	mu      sync.RWMutex
	tenants map[string]*tenant.Tenant
}

func NewInMemoryTenantStore() *InMemoryTenantStore {
	return &InMemoryTenantStore{
		tenants: make(map[string]*tenant.Tenant),
	}
}

func (s *InMemoryTenantStore) Create(ctx context.Context, t *tenant.Tenant) error {
	if err := t.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tenants[t.ID]; exists {
		return ierr.NewError("tenant already exists").
			WithHintf("Tenant with ID %s already exists", t.ID).
			Mark(ierr.ErrAlreadyExists)
	}

	stored := *t
	s.tenants[t.ID] = &stored
	return nil
}

func (s *InMemoryTenantStore) Get(ctx context.Context, id string) (*tenant.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.tenants[id]
	if !exists || t.Status == types.StatusDeleted {
		return nil, ierr.NewError("tenant not found").
			WithHintf("No tenant with ID %s", id).
			Mark(ierr.ErrNotFound)
	}

	found := *t
	return &found, nil
}

func (s *InMemoryTenantStore) Update(ctx context.Context, t *tenant.Tenant) error {
	if err := t.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tenants[t.ID]; !exists {
		return ierr.NewError("tenant not found").
			WithHintf("No tenant with ID %s", t.ID).
			Mark(ierr.ErrNotFound)
	}

	t.UpdatedAt = time.Now().UTC()
	stored := *t
	s.tenants[t.ID] = &stored
	return nil
}

func (s *InMemoryTenantStore) ListSweepDue(ctx context.Context, now time.Time, limit int, afterID string) ([]*tenant.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	due := make([]*tenant.Tenant, 0)
	for _, t := range s.tenants {
		if t.Status != types.StatusPublished || t.ID <= afterID {
			continue
		}
		if t.IsTrialElapsed(now) || t.IsSubscriptionElapsed(now) {
			found := *t
			due = append(due, &found)
		}
	}

	sort.Slice(due, func(i, j int) bool { return due[i].ID < due[j].ID })

	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (s *InMemoryTenantStore) TransitionSubscription(ctx context.Context, t *tenant.Tenant, expected types.SubscriptionStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.tenants[t.ID]
	if !exists || current.Status != types.StatusPublished {
		return false, nil
	}
	if current.SubscriptionStatus != expected {
		return false, nil
	}

	current.SubscriptionStatus = t.SubscriptionStatus
	current.PlanCode = t.PlanCode
	current.TrialStart = t.TrialStart
	current.TrialEnd = t.TrialEnd
	current.SubscriptionStart = t.SubscriptionStart
	current.SubscriptionEnd = t.SubscriptionEnd
	current.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (s *InMemoryTenantStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenants = make(map[string]*tenant.Tenant)
}
