package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/tracegate/tracegate/internal/api/dto"
	"github.com/tracegate/tracegate/internal/logger"
	"github.com/tracegate/tracegate/internal/service"
)

type InventoryHandler struct {
	service service.InventoryService
	log     *logger.Logger
}

func NewInventoryHandler(service service.InventoryService, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{service: service, log: log}
}

func (h *InventoryHandler) CreateLot(c *gin.Context) {
	var req dto.CreateLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		NewErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	resp, err := h.service.CreateLot(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, "Failed to create lot", err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InventoryHandler) GetAvailable(c *gin.Context) {
	resp, err := h.service.GetAvailable(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, "Failed to get lot", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) Reserve(c *gin.Context) {
	h.balanceMutation(c, h.service.Reserve, "Failed to reserve inventory")
}

func (h *InventoryHandler) Release(c *gin.Context) {
	h.balanceMutation(c, h.service.Release, "Failed to release inventory")
}

func (h *InventoryHandler) Ship(c *gin.Context) {
	h.balanceMutation(c, h.service.Ship, "Failed to ship inventory")
}

func (h *InventoryHandler) ListLotEvents(c *gin.Context) {
	resp, err := h.service.ListLotEvents(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, "Failed to list tracking events", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) balanceMutation(
	c *gin.Context,
	fn func(ctx context.Context, lotID string, qty decimal.Decimal) (*dto.LotBalanceResponse, error),
	message string,
) {
	var req dto.QuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		NewErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	resp, err := fn(c.Request.Context(), c.Param("id"), req.Quantity)
	if err != nil {
		AbortWithError(c, message, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
