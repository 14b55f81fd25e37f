package view

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/martijn/inkwell/internal/api/form"
	"github.com/martijn/inkwell/internal/api/session"
	"github.com/martijn/inkwell/web"
)

const AvatarPath = "/static/images/"

// Templates parses the embedded page templates with the view helpers.
func Templates() (*template.Template, error) {
	return web.Templates(template.FuncMap{
		"date":      formatDate,
		"avatarURL": avatarURL,
	})
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func avatarURL(name string) string {
	return AvatarPath + name
}

// Renderer writes HTML pages. Every page receives the current user, the
// pending flash messages and the CSRF token next to its own data.
type Renderer struct {
	sessions *session.Manager
}

func NewRenderer(sessions *session.Manager) *Renderer {
	return &Renderer{sessions: sessions}
}

func (r *Renderer) HTML(c *gin.Context, status int, name string, data gin.H) {
	c.HTML(status, name, r.injectCommonTemplateData(c, data))
}

// Error renders the error page for status.
func (r *Renderer) Error(c *gin.Context, status int, message string) {
	r.HTML(c, status, "error", gin.H{
		"title":       http.StatusText(status),
		"status_code": status,
		"status":      http.StatusText(status),
		"message":     message,
	})
}

// Redirect carries queued flashes over and redirects with 303 See Other.
func (r *Renderer) Redirect(c *gin.Context, location string) {
	r.sessions.CommitFlashes(c)
	c.Redirect(http.StatusSeeOther, location)
}

func (r *Renderer) injectCommonTemplateData(c *gin.Context, payload gin.H) gin.H {
	data := gin.H{
		"current_user": session.CurrentUser(c),
		"flashes":      r.sessions.ConsumeFlashes(c),
		"csrf_token":   r.sessions.EnsureCSRFToken(c),
		"errors":       form.Errors{},
	}
	for k, v := range payload {
		data[k] = v
	}
	return data
}
