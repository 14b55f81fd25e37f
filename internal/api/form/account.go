package form

import (
	"context"
	"net/url"
	"strings"

	"github.com/martijn/inkwell/internal/core/domain"
	"github.com/martijn/inkwell/internal/core/service"
)

type RegistrationForm struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

func ParseRegistrationForm(values url.Values) *RegistrationForm {
	return &RegistrationForm{
		Username:        strings.TrimSpace(values.Get("username")),
		Email:           strings.TrimSpace(values.Get("email")),
		Password:        values.Get("password"),
		ConfirmPassword: values.Get("confirm_password"),
	}
}

// Validate checks every field and whether username or email is already
// registered. The error is only set when a lookup failed.
func (f *RegistrationForm) Validate(ctx context.Context, lookup AccountLookup) (Errors, error) {
	errs := Errors{}

	usernameOK := validateUsername(errs, f.Username)
	emailOK := validateEmail(errs, f.Email)
	required(errs, "password", f.Password)
	if required(errs, "confirm_password", f.ConfirmPassword) {
		if validate.VarWithValue(f.ConfirmPassword, f.Password, "eqfield") != nil {
			errs.Add("confirm_password", MsgPasswordMatch)
		}
	}

	var username, email string
	if usernameOK {
		username = f.Username
	}
	if emailOK {
		email = f.Email
	}
	if err := checkAvailable(ctx, errs, lookup, username, email); err != nil {
		return nil, err
	}

	return errs, nil
}

type LoginForm struct {
	Email    string
	Password string
	Remember bool
}

func ParseLoginForm(values url.Values) *LoginForm {
	return &LoginForm{
		Email:    strings.TrimSpace(values.Get("email")),
		Password: values.Get("password"),
		Remember: parseBool(values.Get("remember")),
	}
}

func (f *LoginForm) Validate() Errors {
	errs := Errors{}
	validateEmail(errs, f.Email)
	required(errs, "password", f.Password)
	return errs
}

type UpdateAccountForm struct {
	Username string
	Email    string
	// PictureName is the client file name of the uploaded picture, empty
	// when no file was chosen.
	PictureName string
}

func ParseUpdateAccountForm(values url.Values, pictureName string) *UpdateAccountForm {
	return &UpdateAccountForm{
		Username:    strings.TrimSpace(values.Get("username")),
		Email:       strings.TrimSpace(values.Get("email")),
		PictureName: pictureName,
	}
}

// Validate checks the profile fields. Uniqueness is only checked for values
// that differ from the current user's own.
func (f *UpdateAccountForm) Validate(ctx context.Context, current *domain.User, lookup AccountLookup) (Errors, error) {
	errs := Errors{}

	var username, email string
	if validateUsername(errs, f.Username) && f.Username != current.Username {
		username = f.Username
	}
	if validateEmail(errs, f.Email) && f.Email != current.Email {
		email = f.Email
	}

	if f.PictureName != "" && !service.AllowedAvatarExtension(f.PictureName) {
		errs.Add("picture", MsgBadExtension)
	}

	if err := checkAvailable(ctx, errs, lookup, username, email); err != nil {
		return nil, err
	}

	return errs, nil
}

// FromUser fills the form with the stored profile for the initial GET.
func FromUser(user *domain.User) *UpdateAccountForm {
	return &UpdateAccountForm{
		Username: user.Username,
		Email:    user.Email,
	}
}
