package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnsupportedImage   = errors.New("unsupported image extension")
	ErrInvalidImage       = errors.New("invalid image data")
	ErrAvatarNotFound     = errors.New("avatar not found")
)
