package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	ierr "github.com/tracegate/tracegate/internal/errors"
	"github.com/tracegate/tracegate/internal/types"
)

// TenantMiddleware resolves the calling tenant from the X-Tenant-ID header
// and stores it on the request context. Every route under /v1 requires it.
func TenantMiddleware(c *gin.Context) {
	tenantID := c.GetHeader(types.HeaderTenantID)
	if tenantID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": ierr.NewError("missing tenant header").
				WithHint("Provide the X-Tenant-ID header").
				Mark(ierr.ErrPermissionDenied).Error(),
		})
		return
	}

	ctx := c.Request.Context()
	ctx = context.WithValue(ctx, types.CtxTenantID, tenantID)

	if userID := c.GetHeader(types.HeaderUserID); userID != "" {
		ctx = context.WithValue(ctx, types.CtxUserID, userID)
	}

	c.Request = c.Request.WithContext(ctx)
	c.Next()
}
