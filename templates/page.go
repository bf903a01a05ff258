package templates

//go:generate go tool templ generate

import (
	"net/url"

	"github.com/a-h/templ"
	"github.com/sidereusnuntius/gonovel/internal/view"
)

type Place int

const (
	PlaceHome Place = iota
	PlaceNovel
	PlaceReader
	PlaceComments
	PlaceLogin
	PlaceSignup
)

type PageData struct {
	SiteName  string
	PageTitle string
	Place     Place
	Auth      view.Auth
	// Flash is a one time message, usually the outcome of the last form submitted.
	Flash string
	// Path is the current request path; forms in the widget send the reader back to it.
	Path  string
	Child templ.Component
}

func pageTitle(p PageData) string {
	if p.PageTitle == "" {
		return p.SiteName
	}
	return p.PageTitle + " | " + p.SiteName
}

// loginHref links to the login form, which sends the reader back to back afterwards.
func loginHref(back string) templ.SafeURL {
	return templ.SafeURL("/login?prev=" + url.QueryEscape(back))
}
