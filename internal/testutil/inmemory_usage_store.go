package testutil

import (
	"context"
	"sync"
	"time"
)

// InMemoryUsageStore provides an in-memory implementation of
// usage.Repository with settable counts. Tests set the counters they
// need; events may instead be driven through an attached CTE store so
// quota checks observe the same data the ledger writes. SetError makes
// every read fail, for exercising degraded-store paths.
type InMemoryUsageStore struct {
	mu sync.RWMutex

	users        map[string]int64
	facilities   map[string]int64
	products     map[string]int64
	storageBytes map[string]int64
	readErr      error

	cteStore *InMemoryCTEStore
}

func NewInMemoryUsageStore(cteStore *InMemoryCTEStore) *InMemoryUsageStore {
	return &InMemoryUsageStore{
		users:        make(map[string]int64),
		facilities:   make(map[string]int64),
		products:     make(map[string]int64),
		storageBytes: make(map[string]int64),
		cteStore:     cteStore,
	}
}

func (s *InMemoryUsageStore) CountUsers(ctx context.Context, tenantID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.readErr != nil {
		return 0, s.readErr
	}
	return s.users[tenantID], nil
}

func (s *InMemoryUsageStore) CountFacilities(ctx context.Context, tenantID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.readErr != nil {
		return 0, s.readErr
	}
	return s.facilities[tenantID], nil
}

func (s *InMemoryUsageStore) CountProducts(ctx context.Context, tenantID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.readErr != nil {
		return 0, s.readErr
	}
	return s.products[tenantID], nil
}

func (s *InMemoryUsageStore) SumStorageBytes(ctx context.Context, tenantID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.readErr != nil {
		return 0, s.readErr
	}
	return s.storageBytes[tenantID], nil
}

func (s *InMemoryUsageStore) CountEventsSince(ctx context.Context, tenantID string, since time.Time) (int64, error) {
	s.mu.RLock()
	err := s.readErr
	s.mu.RUnlock()
	if err != nil {
		return 0, err
	}
	return s.cteStore.CountForTenantSince(ctx, tenantID, since)
}

func (s *InMemoryUsageStore) SetUsers(tenantID string, count int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[tenantID] = count
}

func (s *InMemoryUsageStore) SetFacilities(tenantID string, count int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facilities[tenantID] = count
}

func (s *InMemoryUsageStore) SetProducts(tenantID string, count int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[tenantID] = count
}

func (s *InMemoryUsageStore) SetStorageBytes(tenantID string, bytes int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storageBytes[tenantID] = bytes
}

// SetError makes every subsequent read return err. Pass nil to restore
// normal reads; Clear also resets it.
func (s *InMemoryUsageStore) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readErr = err
}

func (s *InMemoryUsageStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[string]int64)
	s.facilities = make(map[string]int64)
	s.products = make(map[string]int64)
	s.storageBytes = make(map[string]int64)
	s.readErr = nil
}
