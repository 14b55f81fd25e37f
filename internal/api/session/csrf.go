package session

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	CSRFCookieName = "inkwell_csrf"
	CSRFFieldName  = "csrf_token"

	csrfContextKey = "session.csrf"
)

// EnsureCSRFToken returns the request's CSRF token, issuing a cookie with a
// fresh one when the browser has none yet.
func (m *Manager) EnsureCSRFToken(c *gin.Context) string {
	if token := CSRFToken(c); token != "" {
		return token
	}

	token, err := c.Cookie(CSRFCookieName)
	if err != nil || token == "" {
		token = uuid.NewString()
		m.setCookie(c, CSRFCookieName, token, 0, true)
	}
	c.Set(csrfContextKey, token)
	return token
}

// CSRFToken returns the token set up by EnsureCSRFToken for this request.
func CSRFToken(c *gin.Context) string {
	return c.GetString(csrfContextKey)
}

// VerifyCSRF compares the submitted form field with the cookie.
func VerifyCSRF(c *gin.Context) bool {
	cookie, err := c.Cookie(CSRFCookieName)
	if err != nil || cookie == "" {
		return false
	}
	field := c.PostForm(CSRFFieldName)
	return subtle.ConstantTimeCompare([]byte(cookie), []byte(field)) == 1
}
