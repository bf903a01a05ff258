package web

import (
	"iter"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/gonovel/internal/domain"
	"github.com/sidereusnuntius/gonovel/internal/view"
	"github.com/sidereusnuntius/gonovel/templates"
)

const MaxMemory = 64 * 1024

func (h *Handler) render(w http.ResponseWriter, r *http.Request, p templates.PageData) {
	h.renderCode(w, r, http.StatusOK, p)
}

func (h *Handler) renderCode(w http.ResponseWriter, r *http.Request, code int, p templates.PageData) {
	p.SiteName = h.Config.Name
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := templates.Layout(p).Render(r.Context(), w); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to render page")
	}
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request, err error) {
	log.Debug().Err(err).Str("path", r.URL.Path).Msg("not found")
	u, ok := GetSession(r.Context())
	msg := h.popFlash(w, r)
	h.renderCode(w, r, http.StatusNotFound, templates.PageData{
		PageTitle: "Not found",
		Auth:      view.NewAuth(u, ok),
		Flash:     msg,
		Path:      r.URL.Path,
		Child:     templates.NotFound(),
	})
}

func novelID(r *http.Request) domain.ID {
	return domain.ID(chi.URLParam(r, "novelID"))
}

func chapterID(r *http.Request) domain.ID {
	return domain.ID(chi.URLParam(r, "chapterID"))
}

// Home lists the catalog, filtered by the q query parameter.
func Home(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		u, ok := GetSession(ctx)
		query := r.URL.Query().Get("q")

		h.render(w, r, templates.PageData{
			PageTitle: "",
			Place:     templates.PlaceHome,
			Auth:      view.NewAuth(u, ok),
			Flash:     h.popFlash(w, r),
			Path:      r.URL.RequestURI(),
			Child:     templates.Catalog(view.NewHome(query, h.service.Search(ctx, query))),
		})
	}
}

func GetNovel(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		u, ok := GetSession(ctx)

		n, err := h.service.FindNovel(ctx, novelID(r))
		if err != nil {
			h.notFound(w, r, err)
			return
		}

		var p domain.Progress
		if ok {
			if p, err = h.service.GetProgress(ctx, u.Username, n.ID); err != nil {
				log.Error().Err(err).Msg("failed to load progress")
			}
		}

		h.render(w, r, templates.PageData{
			PageTitle: n.Title,
			Place:     templates.PlaceNovel,
			Auth:      view.NewAuth(u, ok),
			Flash:     h.popFlash(w, r),
			Path:      r.URL.Path,
			Child:     templates.NovelDetail(view.NewNovelDetail(n, p)),
		})
	}
}

func GetChapter(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		u, ok := GetSession(ctx)

		n, i, err := h.service.FindChapter(ctx, novelID(r), chapterID(r))
		if err != nil {
			h.notFound(w, r, err)
			return
		}

		var p domain.Progress
		if ok {
			if p, err = h.service.GetProgress(ctx, u.Username, n.ID); err != nil {
				log.Error().Err(err).Msg("failed to load progress")
			}
		}

		h.render(w, r, templates.PageData{
			PageTitle: n.Chapters[i].Title + " - " + n.Title,
			Place:     templates.PlaceReader,
			Auth:      view.NewAuth(u, ok),
			Flash:     h.popFlash(w, r),
			Path:      r.URL.Path,
			Child:     templates.ChapterReader(view.NewReader(n, i, u, ok, p, h.comments(r, n.ID, n.Chapters[i].ID))),
		})
	}
}

// comments loads a chapter's comments; on failure the page shows an empty list.
func (h *Handler) comments(r *http.Request, novelID, chapterID domain.ID) iter.Seq[domain.Comment] {
	seq, err := h.service.ListComments(r.Context(), novelID, chapterID)
	if err != nil {
		log.Error().Err(err).Msg("failed to load comments")
		return nil
	}
	return seq
}

// MarkRead records the chapter as read by the logged in user.
func MarkRead(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		u, _ := GetSession(ctx)

		n, i, err := h.service.FindChapter(ctx, novelID(r), chapterID(r))
		if err != nil {
			h.notFound(w, r, err)
			return
		}
		ch := n.Chapters[i]
		target := view.ChapterPath(n.ID, ch.ID)

		if !view.CanRead(u, true, ch) {
			h.flash(w, r, "Upgrade to premium to read this chapter.")
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}

		_, err = h.service.MarkRead(ctx, u.Username, n.ID, ch.ID)
		switch {
		case err == nil:
		case GetCode(err) == http.StatusUnauthorized:
			h.flash(w, r, "You must be logged in to track your progress.")
		default:
			log.Error().Err(err).Msg("failed to mark chapter as read")
			h.flash(w, r, userMessage(err))
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
	}
}

// GetComments renders the comment section of a chapter on its own page.
func GetComments(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		u, ok := GetSession(ctx)

		n, i, err := h.service.FindChapter(ctx, novelID(r), chapterID(r))
		if err != nil {
			h.notFound(w, r, err)
			return
		}
		ch := n.Chapters[i]

		h.render(w, r, templates.PageData{
			PageTitle: "Comments on " + ch.Title,
			Place:     templates.PlaceComments,
			Auth:      view.NewAuth(u, ok),
			Flash:     h.popFlash(w, r),
			Path:      r.URL.Path,
			Child:     templates.CommentPage(view.ChapterPath(n.ID, ch.ID), ch.Title, view.NewComments(n.ID, ch.ID, ok, h.comments(r, n.ID, ch.ID))),
		})
	}
}

func PostComment(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		u, _ := GetSession(ctx)

		n, i, err := h.service.FindChapter(ctx, novelID(r), chapterID(r))
		if err != nil {
			h.notFound(w, r, err)
			return
		}
		target := view.ChapterPath(n.ID, n.Chapters[i].ID)

		r.Body = http.MaxBytesReader(w, r.Body, MaxMemory)
		if err = r.ParseForm(); err != nil {
			h.flash(w, r, "Failed to read the comment.")
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}

		_, err = h.service.AddComment(ctx, n.ID, n.Chapters[i].ID, u.Username, r.Form.Get("content"))
		switch {
		case err == nil:
		case GetCode(err) == http.StatusBadRequest:
			h.flash(w, r, "A comment cannot be empty.")
		case GetCode(err) == http.StatusUnauthorized:
			h.flash(w, r, "You must be logged in to comment.")
		default:
			log.Error().Err(err).Msg("failed to add comment")
			h.flash(w, r, userMessage(err))
		}
		http.Redirect(w, r, target+"#"+templates.IDComments, http.StatusSeeOther)
	}
}
