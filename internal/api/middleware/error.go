package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/martijn/inkwell/internal/api/view"
	"github.com/martijn/inkwell/pkg/logger"
)

const internalErrorMessage = "Something went wrong on our side. Please try again later."

// ErrorHandlerMiddleware turns panics and unhandled handler errors into the
// 500 error page.
func ErrorHandlerMiddleware(renderer *view.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log := logger.Get()
				log.Error().
					Interface("panic", err).
					Str("path", c.Request.URL.Path).
					Msg("recovered from panic")
				if !c.Writer.Written() {
					renderer.Error(c, http.StatusInternalServerError, internalErrorMessage)
				}
				c.Abort()
			}
		}()

		c.Next()

		// Check if there are any errors
		if len(c.Errors) > 0 && !c.Writer.Written() {
			log := logger.Get()
			log.Error().
				Err(c.Errors.Last().Err).
				Str("path", c.Request.URL.Path).
				Msg("request failed")
			renderer.Error(c, http.StatusInternalServerError, internalErrorMessage)
		}
	}
}
