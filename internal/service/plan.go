package service

import (
	"context"

	"github.com/tracegate/tracegate/internal/api/dto"
	"github.com/tracegate/tracegate/internal/cache"
	"github.com/tracegate/tracegate/internal/domain/plan"
)

// PlanService resolves plans from the static catalog
type PlanService interface {
	GetPlan(ctx context.Context, code string) (*dto.PlanResponse, error)
	ListPlans(ctx context.Context) (*dto.ListPlansResponse, error)
}

type planService struct {
	ServiceParams
}

func NewPlanService(params ServiceParams) PlanService {
	return &planService{ServiceParams: params}
}

func (s *planService) GetPlan(ctx context.Context, code string) (*dto.PlanResponse, error) {
	key := cache.GenerateKey(cache.PrefixPlan, code)
	if cached, found := s.Cache.Get(ctx, key); found {
		if p, ok := cached.(*plan.Plan); ok {
			return &dto.PlanResponse{Plan: p}, nil
		}
	}

	p, err := s.PlanRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, key, p, cache.DefaultExpiration)
	return &dto.PlanResponse{Plan: p}, nil
}

func (s *planService) ListPlans(ctx context.Context) (*dto.ListPlansResponse, error) {
	plans, err := s.PlanRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	response := &dto.ListPlansResponse{
		Items: make([]*dto.PlanResponse, len(plans)),
		Total: len(plans),
	}
	for i, p := range plans {
		response.Items[i] = &dto.PlanResponse{Plan: p}
	}
	return response, nil
}
