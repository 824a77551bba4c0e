package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/devtogether/platform-api/internal/handler"
)

// Recovery converts panics into structured 500 responses. Nothing in this
// service is allowed to propagate as an unhandled panic to the UI.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Interface("panic", r).
					Str("path", c.Request.URL.Path).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				c.AbortWithStatusJSON(http.StatusInternalServerError,
					handler.NewErrorResponse("internal server error"))
			}
		}()
		c.Next()
	}
}
