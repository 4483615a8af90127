package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"library/internal/response"
	"library/internal/storage/library"
	"library/internal/types"
)

// Handler serves the author and book resources. Every request works in its own unit of work
// obtained from store.
func Handler(store library.Store, rr *response.Responder, l *slog.Logger) http.Handler {
	h := &handlers{store: store, rr: rr, l: l}

	r := chi.NewRouter()

	r.Route("/authors", func(r chi.Router) {
		r.Get("/", h.getAuthors)
		r.Post("/", h.createAuthor)
		r.Get("/{authorId}", h.getAuthor)

		r.Route("/{authorId}/books", func(r chi.Router) {
			r.Get("/", h.getBooksForAuthor)
			r.Post("/", h.createBookForAuthor)
			r.Get("/{id}", h.getBookForAuthor)
			r.Put("/{id}", h.updateBookForAuthor)
			r.Patch("/{id}", h.partiallyUpdateBookForAuthor)
			r.Delete("/{id}", h.deleteBookForAuthor)
		})
	})

	return r
}

type handlers struct {
	store library.Store
	rr    *response.Responder
	l     *slog.Logger
}

// requireAuthor answers 404 (or 500 on storage failure) unless the author in the path exists.
func (h *handlers) requireAuthor(w http.ResponseWriter, r *http.Request, repo library.Repository) (uuid.UUID, bool) {
	authorId, ok := pathId(r, "authorId")
	if !ok {
		h.rr.NotFound(w)
		return uuid.Nil, false
	}

	exists, err := repo.AuthorExists(r.Context(), authorId)
	if err != nil {
		h.rr.RespondAndLogError(w, r.Context(), err)
		return uuid.Nil, false
	}

	if !exists {
		h.rr.NotFound(w)
		return uuid.Nil, false
	}

	return authorId, true
}

// findBook looks up the book in the path for the author. It answers 404 for a malformed id (or
// 500 on storage failure) and reports false; a well-formed id of a missing book yields a nil book.
func (h *handlers) findBook(w http.ResponseWriter, r *http.Request, repo library.Repository,
	authorId uuid.UUID) (uuid.UUID, *types.Book, bool) {

	bookId, ok := pathId(r, "id")
	if !ok {
		h.rr.NotFound(w)
		return uuid.Nil, nil, false
	}

	book, err := repo.GetBookForAuthor(r.Context(), authorId, bookId)
	if err != nil {
		h.rr.RespondAndLogError(w, r.Context(), err)
		return uuid.Nil, nil, false
	}

	return bookId, book, true
}

// save commits the unit of work. A failed commit is never retried: the request ends with 500.
func (h *handlers) save(w http.ResponseWriter, r *http.Request, repo library.Repository) bool {
	if err := repo.Save(r.Context()); err != nil {
		h.rr.RespondAndLogError(w, r.Context(), err)
		return false
	}
	return true
}

func (h *handlers) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		h.l.DebugContext(r.Context(), "Rejected request body: "+err.Error())
	}
	h.rr.BadRequest(w)
}
