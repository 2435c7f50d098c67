package respond

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/shared/telemetry"
)

// ErrorBody is the error object of every failed API response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// RetryDetails tells a rate-limited caller when to retry.
type RetryDetails struct {
	RetryAfterMs int64 `json:"retryAfterMs"`
}

// Error aborts the request with the error envelope. Server-side failures are
// logged as errors and caller mistakes as warnings.
func Error(c *gin.Context, status int, code, message string, details any) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"route":      c.FullPath(),
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	if documentID := c.Param("id"); documentID != "" {
		fields["document_id"] = documentID
	}
	if status >= http.StatusInternalServerError {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	c.Header("Cache-Control", "no-store")
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// TooManyRequests rejects a request with 429, a whole-second Retry-After header
// and the wait in milliseconds in the error details.
func TooManyRequests(c *gin.Context, retryAfter time.Duration) {
	if retryAfter < time.Millisecond {
		retryAfter = time.Second
	}
	seconds := int64((retryAfter + time.Second - 1) / time.Second)
	c.Header("Retry-After", strconv.FormatInt(seconds, 10))
	Error(c, http.StatusTooManyRequests, "rate_limited", "too many generation requests, retry later",
		RetryDetails{RetryAfterMs: retryAfter.Milliseconds()})
}
