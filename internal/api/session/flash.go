package session

import (
	"encoding/base64"
	"encoding/json"

	"github.com/gin-gonic/gin"
)

const (
	FlashCookieName = "inkwell_flash"

	flashContextKey = "session.flashes"
)

// Flash categories map onto the stylesheet's alert classes.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashDanger  = "danger"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// AddFlash queues a message for the current response. It is rendered by
// this request when it renders a page, or carried to the next page by
// CommitFlashes before a redirect.
func AddFlash(c *gin.Context, category, message string) {
	c.Set(flashContextKey, append(pendingFlashes(c), Flash{Category: category, Message: message}))
}

func pendingFlashes(c *gin.Context) []Flash {
	v, ok := c.Get(flashContextKey)
	if !ok {
		return nil
	}
	flashes, _ := v.([]Flash)
	return flashes
}

// CommitFlashes moves queued messages into the flash cookie so they survive
// a redirect. Messages already in the cookie are kept in front.
func (m *Manager) CommitFlashes(c *gin.Context) {
	pending := pendingFlashes(c)
	if len(pending) == 0 {
		return
	}

	flashes := append(readFlashCookie(c), pending...)
	data, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	m.setCookie(c, FlashCookieName, base64.RawURLEncoding.EncodeToString(data), 0, true)
	c.Set(flashContextKey, []Flash(nil))
}

// ConsumeFlashes returns every message waiting for this page and deletes
// the flash cookie.
func (m *Manager) ConsumeFlashes(c *gin.Context) []Flash {
	flashes := readFlashCookie(c)
	if _, err := c.Cookie(FlashCookieName); err == nil {
		m.setCookie(c, FlashCookieName, "", -1, true)
	}
	flashes = append(flashes, pendingFlashes(c)...)
	c.Set(flashContextKey, []Flash(nil))
	return flashes
}

func readFlashCookie(c *gin.Context) []Flash {
	raw, err := c.Cookie(FlashCookieName)
	if err != nil || raw == "" {
		return nil
	}

	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}

	var flashes []Flash
	if err := json.Unmarshal(data, &flashes); err != nil {
		return nil
	}
	return flashes
}
