package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/martijn/inkwell/internal/api/session"
	"github.com/martijn/inkwell/internal/api/view"
	"github.com/martijn/inkwell/internal/core/service"
	"github.com/martijn/inkwell/pkg/logger"
)

const LoginRequiredMessage = "Please log in to access this page."

// LoadUser resolves the session cookie into the current user. Invalid,
// expired, revoked or orphaned sessions are cleared and the request
// continues anonymously.
func LoadUser(authService *service.AuthService, sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := sessions.Token(c)
		if !ok {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		claims, err := authService.ValidateToken(ctx, token)
		if err != nil {
			log := logger.Get()
			log.Debug().Err(err).Msg("discarding session")
			sessions.Clear(c)
			c.Next()
			return
		}

		user, err := authService.CurrentUser(ctx, claims)
		if err != nil {
			log := logger.Get()
			log.Debug().Err(err).Str("subject", claims.Subject).Msg("session user unavailable")
			sessions.Clear(c)
			c.Next()
			return
		}

		session.SetCurrentUser(c, user, claims)
		c.Next()
	}
}

// RequireLogin sends anonymous callers to the login page, remembering the
// page they asked for.
func RequireLogin(renderer *view.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if session.IsAuthenticated(c) {
			c.Next()
			return
		}

		session.AddFlash(c, session.FlashInfo, LoginRequiredMessage)
		renderer.Redirect(c, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// RedirectIfAuthenticated keeps logged-in users away from guest-only pages.
func RedirectIfAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if session.IsAuthenticated(c) {
			c.Redirect(http.StatusSeeOther, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}
