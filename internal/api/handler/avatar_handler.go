package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/martijn/inkwell/internal/api/view"
	"github.com/martijn/inkwell/internal/core/domain"
	"github.com/martijn/inkwell/internal/core/service"
	"github.com/martijn/inkwell/web"
)

type AvatarHandler struct {
	avatarService *service.AvatarService
	renderer      *view.Renderer
}

func NewAvatarHandler(avatarService *service.AvatarService, renderer *view.Renderer) *AvatarHandler {
	return &AvatarHandler{
		avatarService: avatarService,
		renderer:      renderer,
	}
}

// Avatar handles GET /static/images/:name
func (h *AvatarHandler) Avatar(c *gin.Context) {
	name := c.Param("name")

	if name == domain.DefaultAvatar {
		c.FileFromFS("images/"+domain.DefaultAvatar, http.FS(web.Static()))
		return
	}

	rc, contentType, err := h.avatarService.Open(c.Request.Context(), name)
	if errors.Is(err, domain.ErrAvatarNotFound) {
		h.renderer.Error(c, http.StatusNotFound, NotFoundMessage)
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Cache-Control", "public, max-age=86400")
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		_ = c.Error(err)
	}
}
