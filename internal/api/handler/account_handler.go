package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/martijn/inkwell/internal/api/form"
	"github.com/martijn/inkwell/internal/api/metrics"
	"github.com/martijn/inkwell/internal/api/session"
	"github.com/martijn/inkwell/internal/api/view"
	"github.com/martijn/inkwell/internal/core/domain"
	"github.com/martijn/inkwell/internal/core/service"
	"github.com/martijn/inkwell/pkg/logger"
)

const AccountUpdatedMessage = "Your account has been updated!"

type AccountHandler struct {
	accountService *service.AccountService
	renderer       *view.Renderer
}

func NewAccountHandler(accountService *service.AccountService, renderer *view.Renderer) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		renderer:       renderer,
	}
}

// ShowAccount handles GET /account
func (h *AccountHandler) ShowAccount(c *gin.Context) {
	h.renderAccount(c, http.StatusOK, form.FromUser(session.CurrentUser(c)), nil)
}

// UpdateAccount handles POST /account
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	ctx := c.Request.Context()
	user := session.CurrentUser(c)
	values := postValues(c)

	picture, err := c.FormFile("picture")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		internalError(c, err)
		return
	}
	pictureName := ""
	if picture != nil {
		pictureName = picture.Filename
	}

	f := form.ParseUpdateAccountForm(values, pictureName)
	errs, err := f.Validate(ctx, user, h.accountService)
	if err != nil {
		internalError(c, err)
		return
	}
	if !errs.Valid() {
		if errs.Has("picture") {
			metrics.AvatarUploadsTotal.WithLabelValues("invalid").Inc()
		}
		h.renderAccount(c, http.StatusUnprocessableEntity, f, errs)
		return
	}

	var upload *service.AvatarUpload
	if picture != nil {
		file, err := picture.Open()
		if err != nil {
			internalError(c, err)
			return
		}
		defer file.Close()
		upload = &service.AvatarUpload{Filename: picture.Filename, Content: file}
	}

	if err := h.accountService.UpdateProfile(ctx, user, f.Username, f.Email, upload); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidImage):
			metrics.AvatarUploadsTotal.WithLabelValues("invalid").Inc()
			errs.Add("picture", form.MsgInvalidImage)
		case errors.Is(err, domain.ErrUnsupportedImage):
			metrics.AvatarUploadsTotal.WithLabelValues("invalid").Inc()
			errs.Add("picture", form.MsgBadExtension)
		case addTakenError(errs, err):
		default:
			if upload != nil {
				metrics.AvatarUploadsTotal.WithLabelValues("error").Inc()
			}
			internalError(c, err)
			return
		}
		h.renderAccount(c, http.StatusUnprocessableEntity, f, errs)
		return
	}

	if upload != nil {
		metrics.AvatarUploadsTotal.WithLabelValues("stored").Inc()
	}
	log := logger.Get()
	log.Info().Int64("user_id", user.ID).Str("image_file", user.ImageFile).Msg("account updated")

	session.AddFlash(c, session.FlashSuccess, AccountUpdatedMessage)
	h.renderer.Redirect(c, "/account")
}

func (h *AccountHandler) renderAccount(c *gin.Context, status int, f *form.UpdateAccountForm, errs form.Errors) {
	h.renderer.HTML(c, status, "account", gin.H{
		"title":  "Account",
		"form":   f,
		"errors": errs,
	})
}
