package impl

import (
	"github.com/sidereusnuntius/gonovel/internal/catalog"
	"github.com/sidereusnuntius/gonovel/internal/config"
	"github.com/sidereusnuntius/gonovel/internal/localstore"
	"github.com/sidereusnuntius/gonovel/internal/service"
	"github.com/sidereusnuntius/gonovel/internal/state"
)

type AppService struct {
	Config config.Configuration
	Store  *localstore.Adapter
	Loader *catalog.Loader
	Clock  state.Clock
}

func New(s *state.State) service.Service {
	clock := s.Clock
	if clock == nil {
		clock = state.SystemClock{}
	}
	return &AppService{
		Config: s.Config,
		Store:  s.Store,
		Loader: s.Catalog,
		Clock:  clock,
	}
}
