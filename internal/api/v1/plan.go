package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tracegate/tracegate/internal/logger"
	"github.com/tracegate/tracegate/internal/service"
)

type PlanHandler struct {
	service service.PlanService
	log     *logger.Logger
}

func NewPlanHandler(service service.PlanService, log *logger.Logger) *PlanHandler {
	return &PlanHandler{service: service, log: log}
}

func (h *PlanHandler) ListPlans(c *gin.Context) {
	resp, err := h.service.ListPlans(c.Request.Context())
	if err != nil {
		AbortWithError(c, "Failed to list plans", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PlanHandler) GetPlan(c *gin.Context) {
	code := c.Param("code")

	resp, err := h.service.GetPlan(c.Request.Context(), code)
	if err != nil {
		AbortWithError(c, "Plan not found", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
