package service

import (
	"errors"

	"github.com/martijn/inkwell/internal/core/domain"
)

// exists converts a lookup result into a presence flag, treating
// domain.ErrUserNotFound as absence.
func exists(user *domain.User, err error) (bool, error) {
	if errors.Is(err, domain.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user != nil, nil
}
