package service

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tracegate/tracegate/internal/api/dto"
	"github.com/tracegate/tracegate/internal/domain/cte"
	ierr "github.com/tracegate/tracegate/internal/errors"
	"github.com/tracegate/tracegate/internal/types"
)

// InventoryService maintains the reserve/release/ship ledger of
// traceability lots. Every mutation is a single conditional update in
// the store, so concurrent callers on the same lot serialize there and
// the balance invariant survives races.
type InventoryService interface {
	CreateLot(ctx context.Context, req dto.CreateLotRequest) (*dto.LotBalanceResponse, error)
	GetAvailable(ctx context.Context, lotID string) (*dto.LotBalanceResponse, error)
	CanShip(ctx context.Context, lotID string, qty decimal.Decimal) (bool, error)
	Reserve(ctx context.Context, lotID string, qty decimal.Decimal) (*dto.LotBalanceResponse, error)
	Release(ctx context.Context, lotID string, qty decimal.Decimal) (*dto.LotBalanceResponse, error)
	Ship(ctx context.Context, lotID string, qty decimal.Decimal) (*dto.LotBalanceResponse, error)
	ListLotEvents(ctx context.Context, lotID string) (*dto.ListTrackingEventsResponse, error)
	ArchiveLot(ctx context.Context, lotID string, status types.LotStatus) error
}

type inventoryService struct {
	ServiceParams
}

func NewInventoryService(params ServiceParams) InventoryService {
	return &inventoryService{ServiceParams: params}
}

func (s *inventoryService) CreateLot(ctx context.Context, req dto.CreateLotRequest) (*dto.LotBalanceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	l := req.ToLot(ctx)
	if err := s.LotRepo.Create(ctx, l); err != nil {
		return nil, err
	}

	// receiving a lot is itself a critical tracking event
	event := &cte.Event{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TRACKING_EVENT),
		TenantID:   l.TenantID,
		LotID:      l.ID,
		Type:       types.CTETypeReceiving,
		Quantity:   l.TotalQuantity,
		Unit:       l.Unit,
		OccurredAt: l.CreatedAt,
		RecordedAt: l.CreatedAt,
		RecordedBy: types.GetUserID(ctx),
	}
	if err := s.CTERepo.Insert(ctx, event); err != nil {
		s.Logger.Errorw("failed to record receiving event for new lot",
			"lot_id", l.ID, "error", err)
		return nil, err
	}

	s.Logger.Infow("created traceability lot",
		"lot_id", l.ID, "tlc", l.TLC, "quantity", l.TotalQuantity)
	return dto.NewLotBalanceResponse(l), nil
}

func (s *inventoryService) GetAvailable(ctx context.Context, lotID string) (*dto.LotBalanceResponse, error) {
	l, err := s.LotRepo.Get(ctx, lotID)
	if err != nil {
		return nil, err
	}
	return dto.NewLotBalanceResponse(l), nil
}

// CanShip never mutates state. A true result is advisory: the
// authoritative check happens inside Reserve/Ship.
func (s *inventoryService) CanShip(ctx context.Context, lotID string, qty decimal.Decimal) (bool, error) {
	if !qty.IsPositive() {
		return false, ierr.NewError("quantity must be positive").
			WithHint("Quantity must be greater than zero").
			Mark(ierr.ErrValidation)
	}

	l, err := s.LotRepo.Get(ctx, lotID)
	if err != nil {
		return false, err
	}
	return l.CanShip(qty), nil
}

func (s *inventoryService) Reserve(ctx context.Context, lotID string, qty decimal.Decimal) (*dto.LotBalanceResponse, error) {
	l, err := s.LotRepo.Reserve(ctx, lotID, qty)
	if err != nil {
		return nil, err
	}

	s.Logger.Debugw("reserved inventory",
		"lot_id", lotID, "quantity", qty, "available", l.AvailableQuantity)
	return dto.NewLotBalanceResponse(l), nil
}

func (s *inventoryService) Release(ctx context.Context, lotID string, qty decimal.Decimal) (*dto.LotBalanceResponse, error) {
	l, err := s.LotRepo.Release(ctx, lotID, qty)
	if err != nil {
		return nil, err
	}

	s.Logger.Debugw("released inventory",
		"lot_id", lotID, "quantity", qty, "available", l.AvailableQuantity)
	return dto.NewLotBalanceResponse(l), nil
}

// Ship consumes a prior reservation and records the shipping CTE in the
// same transaction, so the traceability log never disagrees with the
// ledger.
func (s *inventoryService) Ship(ctx context.Context, lotID string, qty decimal.Decimal) (*dto.LotBalanceResponse, error) {
	var response *dto.LotBalanceResponse

	err := s.DB.WithTx(ctx, func(txCtx context.Context) error {
		l, err := s.LotRepo.Ship(txCtx, lotID, qty)
		if err != nil {
			return err
		}

		now := nowUTC()
		event := &cte.Event{
			ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TRACKING_EVENT),
			TenantID:   l.TenantID,
			LotID:      l.ID,
			Type:       types.CTETypeShipping,
			Quantity:   qty,
			Unit:       l.Unit,
			OccurredAt: now,
			RecordedAt: now,
			RecordedBy: types.GetUserID(txCtx),
		}
		if err := s.CTERepo.Insert(txCtx, event); err != nil {
			return err
		}

		response = dto.NewLotBalanceResponse(l)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("shipped inventory", "lot_id", lotID, "quantity", qty)
	return response, nil
}

func (s *inventoryService) ListLotEvents(ctx context.Context, lotID string) (*dto.ListTrackingEventsResponse, error) {
	if _, err := s.LotRepo.Get(ctx, lotID); err != nil {
		return nil, err
	}

	events, err := s.CTERepo.ListByLot(ctx, lotID)
	if err != nil {
		return nil, err
	}

	response := &dto.ListTrackingEventsResponse{
		Items: make([]*dto.TrackingEventResponse, len(events)),
		Total: len(events),
	}
	for i, e := range events {
		response.Items[i] = &dto.TrackingEventResponse{
			ID:         e.ID,
			LotID:      e.LotID,
			Type:       e.Type,
			Quantity:   e.Quantity,
			Unit:       e.Unit,
			OccurredAt: e.OccurredAt,
		}
	}
	return response, nil
}

func (s *inventoryService) ArchiveLot(ctx context.Context, lotID string, status types.LotStatus) error {
	if status == types.LotStatusActive {
		return ierr.NewError("cannot archive to active status").
			WithHint("Target status must be archived, expired or recalled").
			Mark(ierr.ErrValidation)
	}
	return s.LotRepo.UpdateStatus(ctx, lotID, status)
}
