package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tracegate/tracegate/internal/domain/lot"
	ierr "github.com/tracegate/tracegate/internal/errors"
	"github.com/tracegate/tracegate/internal/types"
)

// InMemoryLotStore provides an in-memory implementation of
// lot.Repository. Balance mutations apply the same check-then-move
// condition the postgres implementation expresses as a conditional
// UPDATE, held under the store mutex.
type InMemoryLotStore struct {
	mu   sync.RWMutex
	lots map[string]*lot.TraceabilityLot
}

func NewInMemoryLotStore() *InMemoryLotStore {
	return &InMemoryLotStore{
		lots: make(map[string]*lot.TraceabilityLot),
	}
}

func (s *InMemoryLotStore) Create(ctx context.Context, l *lot.TraceabilityLot) error {
	if err := l.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.lots[l.ID]; exists {
		return ierr.NewError("lot already exists").
			WithHintf("Lot with ID %s already exists", l.ID).
			Mark(ierr.ErrAlreadyExists)
	}

	stored := *l
	s.lots[l.ID] = &stored
	return nil
}

func (s *InMemoryLotStore) Get(ctx context.Context, id string) (*lot.TraceabilityLot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getLocked(id)
}

func (s *InMemoryLotStore) getLocked(id string) (*lot.TraceabilityLot, error) {
	l, exists := s.lots[id]
	if !exists || l.Status == types.StatusDeleted {
		return nil, ierr.NewError("lot not found").
			WithHintf("No traceability lot with ID %s", id).
			Mark(ierr.ErrNotFound)
	}

	found := *l
	return &found, nil
}

func (s *InMemoryLotStore) Reserve(ctx context.Context, id string, qty decimal.Decimal) (*lot.TraceabilityLot, error) {
	return s.mutateBalance(ctx, id, qty, func(l *lot.TraceabilityLot) error {
		if l.AvailableQuantity.LessThan(qty) {
			return ierr.NewError("insufficient inventory").
				WithHintf("Requested %s %s but only %s available", qty, l.Unit, l.AvailableQuantity).
				Mark(ierr.ErrInsufficientInventory)
		}
		l.AvailableQuantity = l.AvailableQuantity.Sub(qty)
		l.ReservedQuantity = l.ReservedQuantity.Add(qty)
		return nil
	})
}

func (s *InMemoryLotStore) Release(ctx context.Context, id string, qty decimal.Decimal) (*lot.TraceabilityLot, error) {
	return s.mutateBalance(ctx, id, qty, func(l *lot.TraceabilityLot) error {
		if l.ReservedQuantity.LessThan(qty) {
			return ierr.NewError("release exceeds reserved quantity").
				WithHintf("Requested %s %s but only %s reserved", qty, l.Unit, l.ReservedQuantity).
				Mark(ierr.ErrInvalidState)
		}
		l.ReservedQuantity = l.ReservedQuantity.Sub(qty)
		l.AvailableQuantity = l.AvailableQuantity.Add(qty)
		return nil
	})
}

func (s *InMemoryLotStore) Ship(ctx context.Context, id string, qty decimal.Decimal) (*lot.TraceabilityLot, error) {
	return s.mutateBalance(ctx, id, qty, func(l *lot.TraceabilityLot) error {
		if l.ReservedQuantity.LessThan(qty) {
			return ierr.NewError("ship exceeds reserved quantity").
				WithHintf("Requested %s %s but only %s reserved", qty, l.Unit, l.ReservedQuantity).
				Mark(ierr.ErrInvalidState)
		}
		l.ReservedQuantity = l.ReservedQuantity.Sub(qty)
		l.ShippedQuantity = l.ShippedQuantity.Add(qty)
		return nil
	})
}

func (s *InMemoryLotStore) UpdateStatus(ctx context.Context, id string, status types.LotStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l, exists := s.lots[id]
	if !exists || l.Status == types.StatusDeleted {
		return ierr.NewError("lot not found").
			WithHintf("No traceability lot with ID %s", id).
			Mark(ierr.ErrNotFound)
	}

	l.LotStatus = status
	l.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *InMemoryLotStore) mutateBalance(
	_ context.Context,
	id string,
	qty decimal.Decimal,
	move func(l *lot.TraceabilityLot) error,
) (*lot.TraceabilityLot, error) {
	if !qty.IsPositive() {
		return nil, ierr.NewError("quantity must be positive").
			WithHint("Quantity must be greater than zero").
			Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l, exists := s.lots[id]
	if !exists || l.Status == types.StatusDeleted {
		return nil, ierr.NewError("lot not found").
			WithHintf("No traceability lot with ID %s", id).
			Mark(ierr.ErrNotFound)
	}
	if l.LotStatus != types.LotStatusActive {
		return nil, ierr.NewError("lot is not active").
			WithHintf("Lot is %s and cannot be modified", l.LotStatus).
			Mark(ierr.ErrInvalidState)
	}

	if err := move(l); err != nil {
		return nil, err
	}
	l.UpdatedAt = time.Now().UTC()

	if err := l.CheckBalance(); err != nil {
		return nil, err
	}

	updated := *l
	return &updated, nil
}

func (s *InMemoryLotStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lots = make(map[string]*lot.TraceabilityLot)
}
