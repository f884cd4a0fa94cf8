package service

import (
	"testing"

	"github.com/stretchr/testify/suite"
	ierr "github.com/tracegate/tracegate/internal/errors"
	"github.com/tracegate/tracegate/internal/testutil"
)

type PlanServiceSuite struct {
	testutil.BaseServiceTestSuite
	service PlanService
}

func TestPlanService(t *testing.T) {
	suite.Run(t, new(PlanServiceSuite))
}

func (s *PlanServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService()
}

func (s *PlanServiceSuite) setupService() {
	stores := s.GetStores()
	s.service = NewPlanService(ServiceParams{
		Logger:   s.GetLogger(),
		Config:   s.GetConfig(),
		DB:       s.GetDB(),
		Cache:    s.GetCache(),
		PlanRepo: stores.PlanRepo,
	})
}

func (s *PlanServiceSuite) TestListPlans() {
	resp, err := s.service.ListPlans(s.GetContext())
	s.NoError(err)
	s.Equal(3, resp.Total)

	codes := make([]string, 0, len(resp.Items))
	for _, p := range resp.Items {
		codes = append(codes, p.Code)
	}
	s.Contains(codes, "starter")
	s.Contains(codes, "growth")
	s.Contains(codes, "enterprise")
}

func (s *PlanServiceSuite) TestGetPlan() {
	resp, err := s.service.GetPlan(s.GetContext(), "starter")
	s.NoError(err)
	s.Equal("starter", resp.Code)
	s.Equal(int64(5), resp.Limits.MaxUsers)
	s.Equal(int64(1), resp.Limits.MaxFacilities)
	s.True(resp.Features.FDACompliance)
	s.False(resp.Features.CustomBranding)

	// second resolution is served from cache and must be identical
	cached, err := s.service.GetPlan(s.GetContext(), "starter")
	s.NoError(err)
	s.Equal(resp.Plan, cached.Plan)
}

func (s *PlanServiceSuite) TestGetPlanNotFound() {
	resp, err := s.service.GetPlan(s.GetContext(), "platinum")
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsNotFound(err))
}
