package dto

import "github.com/tracegate/tracegate/internal/domain/plan"

type PlanResponse struct {
	*plan.Plan
}

type ListPlansResponse struct {
	Items []*PlanResponse `json:"items"`
	Total int             `json:"total"`
}
