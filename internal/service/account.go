package service

import (
	"context"

	"github.com/sidereusnuntius/gonovel/internal/domain"
)

type AccountService interface {
	// Register creates a free account and logs it in. It fails with ErrInvalidInput if the username or
	// password is blank and with ErrConflict if the username is taken.
	Register(ctx context.Context, username, password string) (domain.User, error)
	// Login checks the credentials, which must match a stored user exactly, and logs the user in.
	Login(ctx context.Context, username, password string) (domain.User, error)
	// UpgradeMembership makes the user premium. Upgrading a premium user does nothing.
	UpgradeMembership(ctx context.Context, username string) (domain.User, error)
	GetUser(ctx context.Context, username string) (domain.User, error)
}

type SessionService interface {
	// CurrentUser returns the logged in user. ok is false when nobody is logged in, including when the session
	// names a user that no longer exists.
	CurrentUser(ctx context.Context) (u domain.User, ok bool, err error)
	Logout(ctx context.Context) error
}
