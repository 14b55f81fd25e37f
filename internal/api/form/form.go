package form

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MsgRequired      = "This field is required."
	MsgUsernameLen   = "Field must be between 2 and 20 characters long."
	MsgInvalidEmail  = "Invalid email address."
	MsgPasswordMatch = "Field must be equal to password."
	MsgUsernameTaken = "That username is taken. Please choose a different one."
	MsgEmailTaken    = "That email is taken. Please choose a different one."
	MsgBadExtension  = "File does not have an approved extension: jpg, png, jpeg"
	MsgInvalidImage  = "Could not read image file."
)

var validate = validator.New()

// AccountLookup answers the uniqueness questions asked by the account forms.
type AccountLookup interface {
	IsUsernameTaken(ctx context.Context, username string) (bool, error)
	IsEmailTaken(ctx context.Context, email string) (bool, error)
}

// Errors maps a field name to its validation messages. An empty map means
// the submission is valid.
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// Get is used by templates to list the messages of one field.
func (e Errors) Get(field string) []string {
	return e[field]
}

func (e Errors) Valid() bool {
	return len(e) == 0
}

// required records MsgRequired when value is empty or only whitespace.
func required(errs Errors, field, value string) bool {
	if validate.Var(strings.TrimSpace(value), "required") != nil {
		errs.Add(field, MsgRequired)
		return false
	}
	return true
}

func check(errs Errors, field, value, tag, message string) bool {
	if validate.Var(value, tag) != nil {
		errs.Add(field, message)
		return false
	}
	return true
}

func validateUsername(errs Errors, username string) bool {
	return required(errs, "username", username) &&
		check(errs, "username", username, "min=2,max=20", MsgUsernameLen)
}

func validateEmail(errs Errors, email string) bool {
	return required(errs, "email", email) &&
		check(errs, "email", email, "email", MsgInvalidEmail)
}

// checkAvailable adds the taken messages for username and email. Empty
// values skip the lookup.
func checkAvailable(ctx context.Context, errs Errors, lookup AccountLookup, username, email string) error {
	if username != "" {
		taken, err := lookup.IsUsernameTaken(ctx, username)
		if err != nil {
			return err
		}
		if taken {
			errs.Add("username", MsgUsernameTaken)
		}
	}

	if email != "" {
		taken, err := lookup.IsEmailTaken(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			errs.Add("email", MsgEmailTaken)
		}
	}
	return nil
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "0", "n", "no", "off", "false":
		return false
	}
	return true
}
