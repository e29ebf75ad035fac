package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/rtvox/rtvox-billing/internal/types"
)

// RequestIDMiddleware propagates the caller's X-Request-ID, generating one
// when absent, and stores it on the request context for logging.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(types.HeaderRequestID)
		if requestID == "" {
			requestID = types.GenerateUUIDWithPrefix(types.UUIDPrefixRequest)
		}

		ctx := types.SetRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(types.HeaderRequestID, requestID)

		c.Next()
	}
}
