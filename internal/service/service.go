package service

import (
	"errors"
)

var (
	// ErrInvalidInput is returned when a required field is empty.
	ErrInvalidInput = errors.New("invalid")
	// ErrConflict is returned when registering a username that is already taken.
	ErrConflict = errors.New("conflict")
	// ErrUnauthenticated is returned on bad credentials and on actions that need a logged in user.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrNotFound        = errors.New("not found")
)

type Service interface {
	AccountService
	SessionService
	ProgressService
	CommentService
	CatalogService
}
