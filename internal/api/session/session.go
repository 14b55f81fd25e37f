package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/martijn/inkwell/internal/core/domain"
	"github.com/martijn/inkwell/internal/core/service"
)

const (
	CookieName = "inkwell_session"

	userContextKey   = "session.user"
	claimsContextKey = "session.claims"
)

// Manager writes and clears the session, flash and CSRF cookies.
type Manager struct {
	secure      bool
	rememberTTL time.Duration
}

func NewManager(secure bool, rememberTTL time.Duration) *Manager {
	return &Manager{
		secure:      secure,
		rememberTTL: rememberTTL,
	}
}

// Token returns the raw session token sent by the browser.
func (m *Manager) Token(c *gin.Context) (string, bool) {
	token, err := c.Cookie(CookieName)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

// SetToken stores token in the session cookie. Remembered sessions survive
// a browser restart, others end with the browser session.
func (m *Manager) SetToken(c *gin.Context, token string, remember bool) {
	maxAge := 0
	if remember {
		maxAge = int(m.rememberTTL / time.Second)
	}
	m.setCookie(c, CookieName, token, maxAge, true)
}

// Clear removes the session cookie and forgets the current user.
func (m *Manager) Clear(c *gin.Context) {
	m.setCookie(c, CookieName, "", -1, true)
	c.Set(userContextKey, (*domain.User)(nil))
	c.Set(claimsContextKey, (*service.SessionClaims)(nil))
}

func (m *Manager) setCookie(c *gin.Context, name, value string, maxAge int, httpOnly bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: httpOnly,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetCurrentUser marks the request as authenticated.
func SetCurrentUser(c *gin.Context, user *domain.User, claims *service.SessionClaims) {
	c.Set(userContextKey, user)
	c.Set(claimsContextKey, claims)
}

// CurrentUser returns the authenticated user or nil for anonymous requests.
func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}

// Claims returns the validated token claims of the current request.
func Claims(c *gin.Context) *service.SessionClaims {
	v, ok := c.Get(claimsContextKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*service.SessionClaims)
	return claims
}

func IsAuthenticated(c *gin.Context) bool {
	return CurrentUser(c) != nil
}
