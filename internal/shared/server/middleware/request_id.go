package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header names shared by the middleware chain and the CORS policy.
const (
	HeaderRequestID = "X-Request-Id"
	HeaderUserID    = "X-User-Id"
	HeaderGuestID   = "X-Guest-Id"
)

const (
	requestIDKey = "requestId"

	maxRequestIDLength = 128
)

// RequestID propagates a caller-supplied request id or mints one. Supplied ids
// that are oversized or contain non-printable characters are replaced, so they
// can be logged verbatim.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if !validRequestID(id) {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(HeaderRequestID, id)
		c.Next()
	}
}

// RequestIDFromContext returns the id set by RequestID, or "".
func RequestIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(requestIDKey)
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
