package web

import (
	"github.com/alexedwards/scs"
	"github.com/sidereusnuntius/gonovel/internal/config"
	"github.com/sidereusnuntius/gonovel/internal/service"
)

const (
	LoginRoute   = "/login"
	SignUpRoute  = "/register"
	LogoutRoute  = "/logout"
	UpgradeRoute = "/membership/upgrade"
	NovelsPath   = "/novels"
)

type Handler struct {
	Config         *config.Configuration
	service        service.Service
	SessionManager *scs.Manager
}

func New(config *config.Configuration, service service.Service, manager *scs.Manager) Handler {
	return Handler{
		Config:         config,
		service:        service,
		SessionManager: manager,
	}
}
