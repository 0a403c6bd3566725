package middleware

import (
	"fmt"
	"runtime/debug"

	"housiee-backend/internal/shared/response"
	"housiee-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Recovery turns a panic into the standard 500 body.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			log.Error().
				Str("request_id", c.GetString("request_id")).
				Str("route", c.FullPath()).
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("Panic recovered")

			if c.Writer.Written() {
				c.Abort()
				return
			}
			response.Abort(c, apperror.Internal(fmt.Errorf("panic: %v", rec)))
		}()

		c.Next()
	}
}
