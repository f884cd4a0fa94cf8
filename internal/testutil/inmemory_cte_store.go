package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tracegate/tracegate/internal/domain/cte"
)

// InMemoryCTEStore provides an in-memory implementation of cte.Repository
type InMemoryCTEStore struct {
	mu     sync.RWMutex
	events []*cte.Event
}

func NewInMemoryCTEStore() *InMemoryCTEStore {
	return &InMemoryCTEStore{
		events: make([]*cte.Event, 0),
	}
}

func (s *InMemoryCTEStore) Insert(ctx context.Context, e *cte.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *e
	s.events = append(s.events, &stored)
	return nil
}

func (s *InMemoryCTEStore) ListByLot(ctx context.Context, lotID string) ([]*cte.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*cte.Event, 0)
	for _, e := range s.events {
		if e.LotID == lotID {
			found := *e
			matched = append(matched, &found)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].OccurredAt.Before(matched[j].OccurredAt)
	})
	return matched, nil
}

func (s *InMemoryCTEStore) CountForTenantSince(ctx context.Context, tenantID string, since time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, e := range s.events {
		if e.TenantID == tenantID && !e.RecordedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (s *InMemoryCTEStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make([]*cte.Event, 0)
}
