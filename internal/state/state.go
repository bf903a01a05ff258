// Package state holds the process wide objects shared by the services: the key space, the catalog and the
// configuration. They are created once at startup and handed to constructors.
package state

import (
	"time"

	"github.com/sidereusnuntius/gonovel/internal/catalog"
	"github.com/sidereusnuntius/gonovel/internal/config"
	"github.com/sidereusnuntius/gonovel/internal/localstore"
)

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

type State struct {
	Store   *localstore.Adapter
	Catalog *catalog.Loader
	Config  config.Configuration
	Clock   Clock
}
