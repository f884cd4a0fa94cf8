package service

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/tracegate/tracegate/internal/api/dto"
	ierr "github.com/tracegate/tracegate/internal/errors"
	"github.com/tracegate/tracegate/internal/testutil"
	"github.com/tracegate/tracegate/internal/types"
)

type InventoryServiceSuite struct {
	testutil.BaseServiceTestSuite
	service InventoryService
}

func TestInventoryService(t *testing.T) {
	suite.Run(t, new(InventoryServiceSuite))
}

func (s *InventoryServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService()
}

func (s *InventoryServiceSuite) setupService() {
	stores := s.GetStores()
	s.service = NewInventoryService(ServiceParams{
		Logger:     s.GetLogger(),
		Config:     s.GetConfig(),
		DB:         s.GetDB(),
		Cache:      s.GetCache(),
		TenantRepo: stores.TenantRepo,
		PlanRepo:   stores.PlanRepo,
		LotRepo:    stores.LotRepo,
		CTERepo:    stores.CTERepo,
		UsageRepo:  stores.UsageRepo,
	})
}

func (s *InventoryServiceSuite) createLot(quantity string) *dto.LotBalanceResponse {
	resp, err := s.service.CreateLot(s.GetContext(), dto.CreateLotRequest{
		TLC:        "TLC-TEST01",
		ProductID:  "prod_1",
		FacilityID: "fac_1",
		Unit:       "kg",
		Quantity:   decimal.RequireFromString(quantity),
	})
	s.NoError(err)
	return resp
}

func (s *InventoryServiceSuite) TestCreateLot() {
	resp := s.createLot("120.5")

	s.Equal("TLC-TEST01", resp.TLC)
	s.True(resp.Total.Equal(decimal.RequireFromString("120.5")))
	s.True(resp.Available.Equal(resp.Total))
	s.True(resp.Reserved.IsZero())
	s.True(resp.Shipped.IsZero())
	s.Equal(types.LotStatusActive, resp.LotStatus)
}

func (s *InventoryServiceSuite) TestCreateLotRecordsReceivingEvent() {
	resp := s.createLot("40")

	events, err := s.service.ListLotEvents(s.GetContext(), resp.ID)
	s.NoError(err)
	s.Equal(1, events.Total)
	s.Equal(types.CTETypeReceiving, events.Items[0].Type)
	s.True(events.Items[0].Quantity.Equal(decimal.NewFromInt(40)))
}

func (s *InventoryServiceSuite) TestCreateLotGeneratesLotCode() {
	resp, err := s.service.CreateLot(s.GetContext(), dto.CreateLotRequest{
		ProductID:  "prod_1",
		FacilityID: "fac_1",
		Unit:       "cases",
		Quantity:   decimal.NewFromInt(10),
	})
	s.NoError(err)
	s.NotEmpty(resp.TLC)
	s.Contains(resp.TLC, "TLC-")
}

func (s *InventoryServiceSuite) TestCreateLotRejectsNonPositiveQuantity() {
	resp, err := s.service.CreateLot(s.GetContext(), dto.CreateLotRequest{
		TLC:        "TLC-BAD",
		ProductID:  "prod_1",
		FacilityID: "fac_1",
		Unit:       "kg",
		Quantity:   decimal.Zero,
	})
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsValidation(err))
}

func (s *InventoryServiceSuite) TestReserveMovesExactDecimals() {
	lot := s.createLot("10.5")

	resp, err := s.service.Reserve(s.GetContext(), lot.ID, decimal.RequireFromString("3.3"))
	s.NoError(err)
	s.True(resp.Available.Equal(decimal.RequireFromString("7.2")))
	s.True(resp.Reserved.Equal(decimal.RequireFromString("3.3")))
	s.True(resp.Total.Equal(decimal.RequireFromString("10.5")))
}

func (s *InventoryServiceSuite) TestReserveReleaseRoundTrip() {
	lot := s.createLot("10.5")

	qty := decimal.RequireFromString("3.3")
	_, err := s.service.Reserve(s.GetContext(), lot.ID, qty)
	s.NoError(err)

	resp, err := s.service.Release(s.GetContext(), lot.ID, qty)
	s.NoError(err)
	s.True(resp.Available.Equal(decimal.RequireFromString("10.5")))
	s.True(resp.Reserved.IsZero())
}

func (s *InventoryServiceSuite) TestReserveBeyondAvailable() {
	lot := s.createLot("10")

	_, err := s.service.Reserve(s.GetContext(), lot.ID, decimal.NewFromInt(6))
	s.NoError(err)

	// only 4 left available now
	resp, err := s.service.Reserve(s.GetContext(), lot.ID, decimal.NewFromInt(6))
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsInsufficientInventory(err))
}

func (s *InventoryServiceSuite) TestConcurrentReservesHaveOneLoser() {
	lot := s.createLot("10")
	qty := decimal.NewFromInt(6)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.service.Reserve(s.GetContext(), lot.ID, qty)
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			s.True(ierr.IsInsufficientInventory(err))
			failures++
		}
	}
	s.Equal(1, failures)

	balance, err := s.service.GetAvailable(s.GetContext(), lot.ID)
	s.NoError(err)
	s.True(balance.Available.Equal(decimal.NewFromInt(4)))
	s.True(balance.Reserved.Equal(decimal.NewFromInt(6)))
}

func (s *InventoryServiceSuite) TestReleaseBeyondReserved() {
	lot := s.createLot("10")

	_, err := s.service.Reserve(s.GetContext(), lot.ID, decimal.NewFromInt(2))
	s.NoError(err)

	resp, err := s.service.Release(s.GetContext(), lot.ID, decimal.NewFromInt(3))
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsInvalidState(err))
}

func (s *InventoryServiceSuite) TestShipConsumesReservation() {
	lot := s.createLot("10")

	_, err := s.service.Reserve(s.GetContext(), lot.ID, decimal.NewFromInt(4))
	s.NoError(err)

	resp, err := s.service.Ship(s.GetContext(), lot.ID, decimal.NewFromInt(4))
	s.NoError(err)
	s.True(resp.Available.Equal(decimal.NewFromInt(6)))
	s.True(resp.Reserved.IsZero())
	s.True(resp.Shipped.Equal(decimal.NewFromInt(4)))
}

func (s *InventoryServiceSuite) TestShipRecordsShippingEvent() {
	lot := s.createLot("10")

	_, err := s.service.Reserve(s.GetContext(), lot.ID, decimal.NewFromInt(4))
	s.NoError(err)
	_, err = s.service.Ship(s.GetContext(), lot.ID, decimal.NewFromInt(4))
	s.NoError(err)

	events, err := s.service.ListLotEvents(s.GetContext(), lot.ID)
	s.NoError(err)
	s.Equal(2, events.Total)

	var shipped int
	for _, e := range events.Items {
		if e.Type == types.CTETypeShipping {
			shipped++
			s.True(e.Quantity.Equal(decimal.NewFromInt(4)))
		}
	}
	s.Equal(1, shipped)
}

func (s *InventoryServiceSuite) TestShipWithoutReservation() {
	lot := s.createLot("10")

	resp, err := s.service.Ship(s.GetContext(), lot.ID, decimal.NewFromInt(1))
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsInvalidState(err))
}

func (s *InventoryServiceSuite) TestCanShip() {
	lot := s.createLot("10")

	ok, err := s.service.CanShip(s.GetContext(), lot.ID, decimal.NewFromInt(10))
	s.NoError(err)
	s.True(ok)

	ok, err = s.service.CanShip(s.GetContext(), lot.ID, decimal.RequireFromString("10.001"))
	s.NoError(err)
	s.False(ok)
}

func (s *InventoryServiceSuite) TestArchivedLotRejectsMutations() {
	lot := s.createLot("10")

	s.NoError(s.service.ArchiveLot(s.GetContext(), lot.ID, types.LotStatusArchived))

	resp, err := s.service.Reserve(s.GetContext(), lot.ID, decimal.NewFromInt(1))
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsInvalidState(err))
}

func (s *InventoryServiceSuite) TestArchiveToActiveRejected() {
	lot := s.createLot("10")

	err := s.service.ArchiveLot(s.GetContext(), lot.ID, types.LotStatusActive)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *InventoryServiceSuite) TestGetAvailableUnknownLot() {
	resp, err := s.service.GetAvailable(s.GetContext(), "lot_missing")
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsNotFound(err))
}
