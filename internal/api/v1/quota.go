package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tracegate/tracegate/internal/api/dto"
	"github.com/tracegate/tracegate/internal/logger"
	"github.com/tracegate/tracegate/internal/service"
	"github.com/tracegate/tracegate/internal/types"
)

type QuotaHandler struct {
	service service.QuotaService
	log     *logger.Logger
}

func NewQuotaHandler(service service.QuotaService, log *logger.Logger) *QuotaHandler {
	return &QuotaHandler{service: service, log: log}
}

func (h *QuotaHandler) CheckQuota(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID := types.GetTenantID(ctx)
	resource := types.ResourceKind(c.Param("resource"))

	resp, err := h.service.CheckQuota(ctx, tenantID, resource)
	if err != nil {
		AbortWithError(c, "Failed to check quota", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *QuotaHandler) GetFeatureAccess(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID := types.GetTenantID(ctx)
	feature := types.FeatureName(c.Param("feature"))

	hasAccess, err := h.service.HasFeatureAccess(ctx, tenantID, feature)
	if err != nil {
		AbortWithError(c, "Failed to check feature access", err)
		return
	}
	c.JSON(http.StatusOK, dto.FeatureAccessResponse{
		Feature:   feature,
		HasAccess: hasAccess,
	})
}

func (h *QuotaHandler) GetUsage(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID := types.GetTenantID(ctx)

	resp, err := h.service.GetUsage(ctx, tenantID)
	if err != nil {
		AbortWithError(c, "Failed to get usage", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
