package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/martijn/inkwell/internal/api/form"
	"github.com/martijn/inkwell/internal/api/metrics"
	"github.com/martijn/inkwell/internal/api/session"
	"github.com/martijn/inkwell/internal/api/view"
	"github.com/martijn/inkwell/internal/core/domain"
	"github.com/martijn/inkwell/internal/core/service"
)

const PostCreatedMessage = "Your post has been created!"

type PostHandler struct {
	postService *service.PostService
	renderer    *view.Renderer
}

func NewPostHandler(postService *service.PostService, renderer *view.Renderer) *PostHandler {
	return &PostHandler{
		postService: postService,
		renderer:    renderer,
	}
}

// ShowCreatePost handles GET /post/new
func (h *PostHandler) ShowCreatePost(c *gin.Context) {
	h.renderCreatePost(c, http.StatusOK, &form.PostForm{}, nil)
}

// CreatePost handles POST /post/new
func (h *PostHandler) CreatePost(c *gin.Context) {
	f := form.ParsePostForm(postValues(c))
	if errs := f.Validate(); !errs.Valid() {
		h.renderCreatePost(c, http.StatusUnprocessableEntity, f, errs)
		return
	}

	if _, err := h.postService.CreatePost(c.Request.Context(), session.CurrentUser(c), f.Title, f.Content); err != nil {
		internalError(c, err)
		return
	}
	metrics.PostsCreatedTotal.Inc()

	session.AddFlash(c, session.FlashSuccess, PostCreatedMessage)
	h.renderer.Redirect(c, "/")
}

func (h *PostHandler) renderCreatePost(c *gin.Context, status int, f *form.PostForm, errs form.Errors) {
	h.renderer.HTML(c, status, "create_post", gin.H{
		"title":  "New Post",
		"legend": "New Post",
		"form":   f,
		"errors": errs,
	})
}

// ShowPost handles GET /post/:id
func (h *PostHandler) ShowPost(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.renderer.Error(c, http.StatusNotFound, NotFoundMessage)
		return
	}

	post, err := h.postService.GetPost(c.Request.Context(), id)
	if errors.Is(err, domain.ErrPostNotFound) {
		h.renderer.Error(c, http.StatusNotFound, NotFoundMessage)
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}

	h.renderer.HTML(c, http.StatusOK, "post_details", gin.H{
		"title": post.Title,
		"post":  post,
	})
}
