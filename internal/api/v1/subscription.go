package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tracegate/tracegate/internal/api/dto"
	"github.com/tracegate/tracegate/internal/logger"
	"github.com/tracegate/tracegate/internal/service"
	"github.com/tracegate/tracegate/internal/types"
)

type SubscriptionHandler struct {
	service service.SubscriptionLifecycleService
	log     *logger.Logger
}

func NewSubscriptionHandler(service service.SubscriptionLifecycleService, log *logger.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{service: service, log: log}
}

func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	ctx := c.Request.Context()

	resp, err := h.service.GetSubscription(ctx, types.GetTenantID(ctx))
	if err != nil {
		AbortWithError(c, "Failed to get subscription", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SubscriptionHandler) StartTrial(c *gin.Context) {
	var req dto.StartTrialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		NewErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	ctx := c.Request.Context()
	resp, err := h.service.StartTrial(ctx, types.GetTenantID(ctx), req)
	if err != nil {
		AbortWithError(c, "Failed to start trial", err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SubscriptionHandler) Activate(c *gin.Context) {
	ctx := c.Request.Context()

	resp, err := h.service.Activate(ctx, types.GetTenantID(ctx))
	if err != nil {
		AbortWithError(c, "Failed to activate subscription", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	ctx := c.Request.Context()

	resp, err := h.service.Cancel(ctx, types.GetTenantID(ctx))
	if err != nil {
		AbortWithError(c, "Failed to cancel subscription", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
