package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/gonovel/internal/domain"
	"github.com/sidereusnuntius/gonovel/internal/service"
	"github.com/sidereusnuntius/gonovel/internal/view"
	"github.com/sidereusnuntius/gonovel/templates"
)

const FlashKey = "flash"

type key struct{}

// GetSession returns the logged in user stored in the request context by SessionMiddleware.
func GetSession(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(key{}).(domain.User)
	return u, ok
}

// SessionMiddleware resolves the current user once per request.
func SessionMiddleware(handler *Handler) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok, err := handler.service.CurrentUser(r.Context())
			if err != nil {
				log.Error().Err(err).Msg("failed to resolve current user")
			}
			if ok {
				r = r.WithContext(context.WithValue(r.Context(), key{}, u))
			}
			h.ServeHTTP(w, r)
		})
	}
}

// AuthenticatedMiddleware turns visitors away from actions that need an account, telling them why.
func AuthenticatedMiddleware(handler *Handler) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := GetSession(r.Context()); ok {
				h.ServeHTTP(w, r)
				return
			}
			handler.flash(w, r, "You must be logged in to do that.")
			http.Redirect(w, r, LoginRoute+"?prev="+url.QueryEscape(back(r)), http.StatusSeeOther)
		})
	}
}

// flash stores a message to be shown on the next page rendered.
func (h *Handler) flash(w http.ResponseWriter, r *http.Request, msg string) {
	if err := h.SessionManager.Load(r).PutString(w, FlashKey, msg); err != nil {
		log.Error().Err(err).Msg("failed to store flash message")
	}
}

func (h *Handler) popFlash(w http.ResponseWriter, r *http.Request) string {
	msg, err := h.SessionManager.Load(r).PopString(w, FlashKey)
	if err != nil {
		log.Error().Err(err).Msg("failed to read flash message")
	}
	return msg
}

// back returns where the reader should land after a form: the prev value if it is a local path, the page the
// form was posted from otherwise.
func back(r *http.Request) string {
	prev := r.FormValue("prev")
	if prev == "" && r.Method == http.MethodGet {
		prev = r.URL.RequestURI()
	}
	if prev == "" {
		if ref, err := url.Parse(r.Referer()); err == nil && ref.Host == r.Host {
			prev = ref.RequestURI()
		}
	}
	return localPath(prev)
}

// localPath returns p if it is a path on this site and "/" otherwise. Browsers drop tabs and newlines from URLs
// and read a backslash as a slash, so those never get through.
func localPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.ContainsRune(p, '\\') {
		return "/"
	}
	if strings.ContainsFunc(p, func(r rune) bool { return r < 0x20 || r == 0x7f }) {
		return "/"
	}
	u, err := url.Parse(p)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return p
}

func Logout(handler *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prev := back(r)
		if err := handler.service.Logout(r.Context()); err != nil {
			log.Error().Err(err).Msg("logout failed")
			handler.flash(w, r, "Could not log out, please try again.")
		}
		if prev == LogoutRoute {
			prev = "/"
		}
		http.Redirect(w, r, prev, http.StatusSeeOther)
	}
}

func Login(handler *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			handler.renderLogin(w, r, http.StatusBadRequest, "Failed to read the form.")
			return
		}

		u, err := handler.service.Login(r.Context(), r.Form.Get("username"), r.Form.Get("password"))
		if err != nil {
			handler.renderLogin(w, r, GetCode(err), userMessage(err))
			return
		}

		handler.flash(w, r, "Welcome back, "+u.Username+".")
		http.Redirect(w, r, localPath(r.Form.Get("prev")), http.StatusSeeOther)
	}
}

func GetLogin(handler *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handler.renderLogin(w, r, http.StatusOK, handler.popFlash(w, r))
	}
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, code int, msg string) {
	u, ok := GetSession(r.Context())
	h.renderCode(w, r, code, templates.PageData{
		PageTitle: "Log in",
		Place:     templates.PlaceLogin,
		Auth:      view.NewAuth(u, ok),
		Flash:     msg,
		Path:      r.URL.Path,
		Child:     templates.Login(LoginRoute, localPath(r.FormValue("prev"))),
	})
}

func SignUp(handler *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			handler.renderSignup(w, r, http.StatusBadRequest, "Failed to read the form.")
			return
		}

		u, err := handler.service.Register(r.Context(), r.Form.Get("username"), r.Form.Get("password"))
		if err != nil {
			handler.renderSignup(w, r, GetCode(err), userMessage(err))
			return
		}

		handler.flash(w, r, "Welcome, "+u.Username+". Your free membership is active.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func GetSignup(handler *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handler.renderSignup(w, r, http.StatusOK, handler.popFlash(w, r))
	}
}

func (h *Handler) renderSignup(w http.ResponseWriter, r *http.Request, code int, msg string) {
	u, ok := GetSession(r.Context())
	h.renderCode(w, r, code, templates.PageData{
		PageTitle: "Register",
		Place:     templates.PlaceSignup,
		Auth:      view.NewAuth(u, ok),
		Flash:     msg,
		Path:      r.URL.Path,
		Child:     templates.SignUp(SignUpRoute),
	})
}

func Upgrade(handler *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, _ := GetSession(r.Context())
		prev := back(r)

		if _, err := handler.service.UpgradeMembership(r.Context(), u.Username); err != nil {
			log.Error().Err(err).Str("username", u.Username).Msg("upgrade failed")
			handler.flash(w, r, userMessage(err))
		} else {
			handler.flash(w, r, "You are now a premium member.")
		}
		http.Redirect(w, r, prev, http.StatusSeeOther)
	}
}

// GetCode maps service errors to HTTP status codes.
func GetCode(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// userMessage is the inline message shown for an error.
func userMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return "Please fill in every field."
	case errors.Is(err, service.ErrConflict):
		return "That username is already taken."
	case errors.Is(err, service.ErrUnauthenticated):
		return "Wrong username or password."
	case errors.Is(err, service.ErrNotFound):
		return "Not found."
	default:
		return "Something went wrong, please try again."
	}
}
