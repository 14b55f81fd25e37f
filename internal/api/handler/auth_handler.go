package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/martijn/inkwell/internal/api/form"
	"github.com/martijn/inkwell/internal/api/metrics"
	"github.com/martijn/inkwell/internal/api/session"
	"github.com/martijn/inkwell/internal/api/view"
	"github.com/martijn/inkwell/internal/core/domain"
	"github.com/martijn/inkwell/internal/core/service"
	"github.com/martijn/inkwell/pkg/logger"
)

const (
	defaultMultipartMemory = 32 << 20

	RegisteredMessage  = "Account created successfully! You can log in now."
	LoginFailedMessage = "Login unsuccessful. Check your credentials."
)

type AuthHandler struct {
	authService    *service.AuthService
	accountService *service.AccountService
	sessions       *session.Manager
	renderer       *view.Renderer
}

func NewAuthHandler(
	authService *service.AuthService,
	accountService *service.AccountService,
	sessions *session.Manager,
	renderer *view.Renderer,
) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		accountService: accountService,
		sessions:       sessions,
		renderer:       renderer,
	}
}

// ShowRegister handles GET /register
func (h *AuthHandler) ShowRegister(c *gin.Context) {
	h.renderRegister(c, http.StatusOK, &form.RegistrationForm{}, nil)
}

// Register handles POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()
	f := form.ParseRegistrationForm(postValues(c))

	errs, err := f.Validate(ctx, h.accountService)
	if err != nil {
		internalError(c, err)
		return
	}
	if !errs.Valid() {
		h.renderRegister(c, http.StatusUnprocessableEntity, f, errs)
		return
	}

	user, err := h.authService.Register(ctx, f.Username, f.Email, f.Password)
	if err != nil {
		if addTakenError(errs, err) {
			h.renderRegister(c, http.StatusUnprocessableEntity, f, errs)
			return
		}
		internalError(c, err)
		return
	}

	metrics.RegistrationsTotal.Inc()
	log := logger.Get()
	log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("account registered")

	session.AddFlash(c, session.FlashSuccess, RegisteredMessage)
	h.renderer.Redirect(c, "/login")
}

func (h *AuthHandler) renderRegister(c *gin.Context, status int, f *form.RegistrationForm, errs form.Errors) {
	// Passwords are never echoed back.
	shown := &form.RegistrationForm{Username: f.Username, Email: f.Email}
	h.renderer.HTML(c, status, "register", gin.H{
		"title":  "Register",
		"form":   shown,
		"errors": errs,
	})
}

// ShowLogin handles GET /login
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	h.renderLogin(c, http.StatusOK, &form.LoginForm{}, nil)
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	f := form.ParseLoginForm(postValues(c))

	if errs := f.Validate(); !errs.Valid() {
		h.renderLogin(c, http.StatusUnprocessableEntity, f, errs)
		return
	}

	user, err := h.authService.Authenticate(ctx, f.Email, f.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		session.AddFlash(c, session.FlashDanger, LoginFailedMessage)
		h.renderLogin(c, http.StatusUnauthorized, f, nil)
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}

	token, _, err := h.authService.IssueToken(user, f.Remember)
	if err != nil {
		internalError(c, err)
		return
	}
	h.sessions.SetToken(c, token, f.Remember)
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	h.renderer.Redirect(c, safeNext(c.Query("next")))
}

func (h *AuthHandler) renderLogin(c *gin.Context, status int, f *form.LoginForm, errs form.Errors) {
	shown := &form.LoginForm{Email: f.Email, Remember: f.Remember}
	h.renderer.HTML(c, status, "login", gin.H{
		"title":  "Login",
		"form":   shown,
		"errors": errs,
		"next":   c.Query("next"),
	})
}

// Logout handles GET /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if claims := session.Claims(c); claims != nil {
		if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
			log := logger.Get()
			log.Warn().Err(err).Msg("failed to revoke session")
		}
	}
	h.sessions.Clear(c)
	h.renderer.Redirect(c, "/")
}

// safeNext only follows local paths so the login form cannot be used as an
// open redirect.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

// addTakenError maps a uniqueness race lost at insert time onto the form
// field it belongs to.
func addTakenError(errs form.Errors, err error) bool {
	switch {
	case errors.Is(err, domain.ErrUsernameTaken):
		errs.Add("username", form.MsgUsernameTaken)
	case errors.Is(err, domain.ErrEmailTaken):
		errs.Add("email", form.MsgEmailTaken)
	default:
		return false
	}
	return true
}

// internalError hands err to the error middleware, which logs it and
// renders the 500 page.
func internalError(c *gin.Context, err error) {
	_ = c.Error(err)
}

// postValues returns the submitted form fields, parsing the body when no
// middleware did so yet.
func postValues(c *gin.Context) url.Values {
	if c.Request.PostForm == nil {
		_ = c.Request.ParseMultipartForm(defaultMultipartMemory)
	}
	return c.Request.PostForm
}
