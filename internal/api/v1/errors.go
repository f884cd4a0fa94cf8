package v1

import (
	"github.com/gin-gonic/gin"
	ierr "github.com/tracegate/tracegate/internal/errors"
)

// ErrorResponse represents the API error response structure
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// NewErrorResponse writes an error response with an explicit status code
func NewErrorResponse(c *gin.Context, code int, message string, err error) {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:  message,
		Detail: detail,
	})
}

// AbortWithError maps a domain error onto its HTTP status code
func AbortWithError(c *gin.Context, message string, err error) {
	NewErrorResponse(c, ierr.HTTPStatusFromErr(err), message, err)
}
