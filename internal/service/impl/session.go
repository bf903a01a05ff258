package impl

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/gonovel/internal/domain"
	"github.com/sidereusnuntius/gonovel/internal/localstore"
	"github.com/sidereusnuntius/gonovel/internal/service"
)

func (s *AppService) establish(ctx context.Context, username string) error {
	return localstore.Save(ctx, s.Store, localstore.KeyCurrentUser, username)
}

func (s *AppService) CurrentUser(ctx context.Context) (domain.User, bool, error) {
	username, err := localstore.Load[string](ctx, s.Store, localstore.KeyCurrentUser)
	if err != nil || username == "" {
		return domain.User{}, false, err
	}

	u, err := s.GetUser(ctx, username)
	if errors.Is(err, service.ErrNotFound) {
		log.Warn().Str("username", username).Msg("session names an unknown user")
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, err
	}
	return u, true, nil
}

func (s *AppService) Logout(ctx context.Context) error {
	return s.Store.Remove(ctx, localstore.KeyCurrentUser)
}

// requireSession fails with ErrUnauthenticated unless username is the logged in user.
func (s *AppService) requireSession(ctx context.Context, username string) error {
	u, ok, err := s.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if !ok || u.Username != username {
		return service.ErrUnauthenticated
	}
	return nil
}
