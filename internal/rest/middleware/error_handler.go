package middleware

import (
	"github.com/gin-gonic/gin"

	ierr "github.com/rtvox/rtvox-billing/internal/errors"
)

// ErrorHandler renders the last error attached to the context as the
// standard error response. Handlers call c.Error and return; this is the
// single place errors become HTTP.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		c.JSON(ierr.HTTPStatusFromErr(err), ierr.NewErrorResponse(err))
	}
}
