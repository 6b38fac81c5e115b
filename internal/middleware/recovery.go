package middleware

import (
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
)

func Recovery(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().
					Interface("panic", r).
					Str("request_id", c.GetString(ContextRequestID)).
					Str("stack", string(debug.Stack())).
					Msg("panic recovered")

				httperr.Internal(c, "internal_error", "Internal server error.")
				c.Abort()
			}
		}()
		c.Next()
	}
}
