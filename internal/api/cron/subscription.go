package cron

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tracegate/tracegate/internal/logger"
	"github.com/tracegate/tracegate/internal/service"
)

// SubscriptionHandler handles subscription related cron jobs
type SubscriptionHandler struct {
	lifecycleService service.SubscriptionLifecycleService
	logger           *logger.Logger
}

// NewSubscriptionHandler creates a new subscription cron handler
func NewSubscriptionHandler(
	lifecycleService service.SubscriptionLifecycleService,
	logger *logger.Logger,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		lifecycleService: lifecycleService,
		logger:           logger,
	}
}

// RunLifecycleSweep applies due trial conversions and expirations. The
// external scheduler calls this daily; overlapping invocations are safe.
func (h *SubscriptionHandler) RunLifecycleSweep(c *gin.Context) {
	h.logger.Infow("starting lifecycle sweep cron job")

	response, err := h.lifecycleService.RunLifecycleSweep(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to run lifecycle sweep", "error", err)
		c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.logger.Infow("completed lifecycle sweep cron job",
		"transitioned", response.Transitioned,
		"expired", response.Expired)
	c.JSON(http.StatusOK, response)
}
