package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/martijn/inkwell/internal/api/view"
	"github.com/martijn/inkwell/internal/core/service"
)

const NotFoundMessage = "That page does not exist."

type HomeHandler struct {
	postService *service.PostService
	renderer    *view.Renderer
}

func NewHomeHandler(postService *service.PostService, renderer *view.Renderer) *HomeHandler {
	return &HomeHandler{
		postService: postService,
		renderer:    renderer,
	}
}

// Home handles GET / and GET /home
func (h *HomeHandler) Home(c *gin.Context) {
	posts, err := h.postService.ListPosts(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}

	h.renderer.HTML(c, http.StatusOK, "home", gin.H{
		"posts": posts,
	})
}

// About handles GET /about
func (h *HomeHandler) About(c *gin.Context) {
	h.renderer.HTML(c, http.StatusOK, "about", gin.H{
		"title": "About",
	})
}

// NotFound renders the 404 page for unknown routes.
func (h *HomeHandler) NotFound(c *gin.Context) {
	h.renderer.Error(c, http.StatusNotFound, NotFoundMessage)
}
