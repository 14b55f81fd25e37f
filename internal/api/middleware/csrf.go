package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/martijn/inkwell/internal/api/session"
	"github.com/martijn/inkwell/internal/api/view"
)

const (
	csrfFailedMessage  = "The form could not be verified. Please go back, reload the page and try again."
	uploadTooLargeText = "The submitted file is too large."
)

// CSRF issues the token cookie on every request and rejects unsafe requests
// whose csrf_token field does not match it. Form bodies are limited to
// maxBodyBytes.
func CSRF(sessions *session.Manager, renderer *view.Renderer, maxBodyBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessions.EnsureCSRFToken(c)

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
		if err := parseForm(c.Request, maxBodyBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				renderer.Error(c, http.StatusRequestEntityTooLarge, uploadTooLargeText)
			} else {
				renderer.Error(c, http.StatusBadRequest, csrfFailedMessage)
			}
			c.Abort()
			return
		}

		if !session.VerifyCSRF(c) {
			renderer.Error(c, http.StatusBadRequest, csrfFailedMessage)
			c.Abort()
			return
		}

		c.Next()
	}
}

func parseForm(r *http.Request, maxMemory int64) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxMemory)
	}
	return r.ParseForm()
}
