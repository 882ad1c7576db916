package respond

import (
	"github.com/gin-gonic/gin"

	"didattika-backend/internal/shared/telemetry"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body. The top-level "error" string keeps
// compatibility with clients that only read a flat message.
type ErrorResponse struct {
	Error   string    `json:"error"`
	Problem ErrorBody `json:"problem"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	if role, ok := c.Get("userRole"); ok {
		fields["role"] = role
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: message,
		Problem: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}
