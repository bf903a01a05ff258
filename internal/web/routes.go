package web

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) Mount(r chi.Router) {
	authenticated := AuthenticatedMiddleware(h)
	r.Use(SessionMiddleware(h))

	r.Get("/", Home(h))

	r.Get(LoginRoute, GetLogin(h))
	r.Post(LoginRoute, Login(h))
	r.Post(SignUpRoute, SignUp(h))
	r.Get(SignUpRoute, GetSignup(h))
	r.Get(LogoutRoute, Logout(h))
	r.Post(LogoutRoute, Logout(h))
	r.With(authenticated).Post(UpgradeRoute, Upgrade(h))

	r.Route(NovelsPath+"/{novelID}", func(r chi.Router) {
		r.Get("/", GetNovel(h))
		r.Route("/chapters/{chapterID}", func(r chi.Router) {
			r.Get("/", GetChapter(h))
			r.With(authenticated).Post("/read", MarkRead(h))
			r.Get("/comments", GetComments(h))
			r.With(authenticated).Post("/comments", PostComment(h))
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.notFound(w, r, nil)
	})

	h.MountStaticRoutes(r)
}

func (h *Handler) MountStaticRoutes(r chi.Router) {
	dir := h.Config.StaticDir
	if !filepath.IsAbs(dir) {
		wd, _ := os.Getwd()
		dir = filepath.Join(wd, dir)
	}
	f := os.DirFS(dir)

	fileServer := http.FileServer(http.FS(f))
	r.Handle("/static/{name}", http.StripPrefix(
		"/static/",
		fileServer,
	))
}
