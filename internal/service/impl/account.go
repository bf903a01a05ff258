package impl

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/gonovel/internal/domain"
	"github.com/sidereusnuntius/gonovel/internal/localstore"
	"github.com/sidereusnuntius/gonovel/internal/service"
	"github.com/sidereusnuntius/gonovel/internal/validate"
)

func (s *AppService) Register(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	if err := validate.Credentials(username, password); err != nil {
		return domain.User{}, fmt.Errorf("%w: %s", service.ErrInvalidInput, err)
	}

	u := domain.User{
		Username:   username,
		Password:   password,
		Membership: domain.Free,
	}
	_, err := localstore.Update(ctx, s.Store, localstore.KeyUsers, func(users domain.Users) (domain.Users, error) {
		if users.Find(username) >= 0 {
			return users, fmt.Errorf("%w: username %s is taken", service.ErrConflict, username)
		}
		return append(users, u), nil
	})
	if err != nil {
		return domain.User{}, err
	}

	log.Info().Str("username", username).Msg("registered user")
	return u, s.establish(ctx, username)
}

// Login compares the credentials with the stored ones, byte for byte.
func (s *AppService) Login(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	if err := validate.Credentials(username, password); err != nil {
		return domain.User{}, fmt.Errorf("%w: %s", service.ErrInvalidInput, err)
	}

	users, err := localstore.Load[domain.Users](ctx, s.Store, localstore.KeyUsers)
	if err != nil {
		return domain.User{}, err
	}

	i := users.Find(username)
	if i < 0 || users[i].Password != password {
		return domain.User{}, fmt.Errorf("%w: wrong username or password", service.ErrUnauthenticated)
	}

	return users[i], s.establish(ctx, username)
}

func (s *AppService) UpgradeMembership(ctx context.Context, username string) (u domain.User, err error) {
	_, err = localstore.Update(ctx, s.Store, localstore.KeyUsers, func(users domain.Users) (domain.Users, error) {
		i := users.Find(username)
		if i < 0 {
			return users, fmt.Errorf("%w: user %s", service.ErrNotFound, username)
		}
		u = users[i]
		if u.IsPremium() {
			return users, localstore.ErrUnchanged
		}
		users[i].Membership = domain.Premium
		u = users[i]
		return users, nil
	})
	if err != nil {
		return domain.User{}, err
	}
	log.Info().Str("username", username).Msg("membership upgraded")
	return u, nil
}

func (s *AppService) GetUser(ctx context.Context, username string) (domain.User, error) {
	users, err := localstore.Load[domain.Users](ctx, s.Store, localstore.KeyUsers)
	if err != nil {
		return domain.User{}, err
	}
	i := users.Find(username)
	if i < 0 {
		return domain.User{}, fmt.Errorf("%w: user %s", service.ErrNotFound, username)
	}
	return users[i], nil
}
