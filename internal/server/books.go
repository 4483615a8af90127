package server

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"library/internal/mapping"
	"library/internal/patch"
	"library/internal/storage/library"
	"library/internal/types"
	"library/internal/validation"
)

const eventBookDeleted = 100

func (h *handlers) getBooksForAuthor(w http.ResponseWriter, r *http.Request) {
	repo := h.store.Begin()

	authorId, ok := h.requireAuthor(w, r, repo)
	if !ok {
		return
	}

	books, err := repo.GetBooksForAuthor(r.Context(), authorId)
	if err != nil {
		h.rr.RespondAndLogError(w, r.Context(), err)
		return
	}

	if acceptsAtom(r) {
		author, err := repo.GetAuthor(r.Context(), authorId)
		if err != nil {
			h.rr.RespondAndLogError(w, r.Context(), err)
			return
		}
		if author == nil {
			h.rr.NotFound(w)
			return
		}

		h.rr.SendFeed(w, r.Context(), booksFeed(r, author, books))
		return
	}

	h.rr.SendJson(w, r.Context(), http.StatusOK, mapping.BooksToDtos(books))
}

func (h *handlers) getBookForAuthor(w http.ResponseWriter, r *http.Request) {
	repo := h.store.Begin()

	authorId, ok := h.requireAuthor(w, r, repo)
	if !ok {
		return
	}

	_, book, ok := h.findBook(w, r, repo, authorId)
	if !ok {
		return
	}
	if book == nil {
		h.rr.NotFound(w)
		return
	}

	h.rr.SendJson(w, r.Context(), http.StatusOK, mapping.BookToDto(book))
}

func (h *handlers) createBookForAuthor(w http.ResponseWriter, r *http.Request) {
	dto, err := decodeBody[types.BookForCreation](w, r)
	if err != nil || dto == nil {
		h.badRequest(w, r, err)
		return
	}

	if errs := validation.ValidateBookForCreation(dto); !errs.Valid() {
		h.rr.UnprocessableEntity(w, r.Context(), errs)
		return
	}

	repo := h.store.Begin()

	authorId, ok := h.requireAuthor(w, r, repo)
	if !ok {
		return
	}

	book := mapping.BookFromCreation(dto)
	repo.AddBookForAuthor(authorId, book)
	if !h.save(w, r, repo) {
		return
	}

	h.rr.Created(w, r.Context(), childLocation(r, book.Id), mapping.BookToDto(book))
}

func (h *handlers) deleteBookForAuthor(w http.ResponseWriter, r *http.Request) {
	repo := h.store.Begin()

	authorId, ok := h.requireAuthor(w, r, repo)
	if !ok {
		return
	}

	_, book, ok := h.findBook(w, r, repo, authorId)
	if !ok {
		return
	}
	if book == nil {
		h.rr.NotFound(w)
		return
	}

	repo.DeleteBook(book)
	if !h.save(w, r, repo) {
		return
	}

	h.l.InfoContext(r.Context(), "Book was deleted",
		slog.Int("event_id", eventBookDeleted),
		slog.String("author_id", authorId.String()),
		slog.String("book_id", book.Id.String()))

	h.rr.NoContent(w)
}

// updateBookForAuthor replaces every mutable field of the book, creating it under the id
// from the path when it does not exist yet.
func (h *handlers) updateBookForAuthor(w http.ResponseWriter, r *http.Request) {
	dto, err := decodeBody[types.BookForUpdate](w, r)
	if err != nil || dto == nil {
		h.badRequest(w, r, err)
		return
	}

	if errs := validation.ValidateBookForUpdate(dto); !errs.Valid() {
		h.rr.UnprocessableEntity(w, r.Context(), errs)
		return
	}

	repo := h.store.Begin()

	authorId, ok := h.requireAuthor(w, r, repo)
	if !ok {
		return
	}

	bookId, book, ok := h.findBook(w, r, repo, authorId)
	if !ok {
		return
	}

	if book == nil {
		h.upsert(w, r, repo, authorId, bookId, dto)
		return
	}

	mapping.ApplyUpdate(dto, book)
	repo.UpdateBookForAuthor(book)
	if !h.save(w, r, repo) {
		return
	}

	h.rr.NoContent(w)
}

// partiallyUpdateBookForAuthor applies a JSON Patch document to the update projection of the
// book, or to an empty projection when the book does not exist, in which case it is created.
func (h *handlers) partiallyUpdateBookForAuthor(w http.ResponseWriter, r *http.Request) {
	doc, err := decodeBody[patch.Document](w, r)
	if err != nil || doc == nil {
		h.badRequest(w, r, err)
		return
	}

	repo := h.store.Begin()

	authorId, ok := h.requireAuthor(w, r, repo)
	if !ok {
		return
	}

	bookId, book, ok := h.findBook(w, r, repo, authorId)
	if !ok {
		return
	}

	dto := &types.BookForUpdate{}
	if book != nil {
		dto = mapping.BookToUpdate(book)
	}

	if errs := applyPatch(*doc, dto); !errs.Valid() {
		h.rr.UnprocessableEntity(w, r.Context(), errs)
		return
	}

	if book == nil {
		h.upsert(w, r, repo, authorId, bookId, dto)
		return
	}

	mapping.ApplyUpdate(dto, book)
	repo.UpdateBookForAuthor(book)
	if !h.save(w, r, repo) {
		return
	}

	h.rr.NoContent(w)
}

// upsert creates a book with a client supplied id.
func (h *handlers) upsert(w http.ResponseWriter, r *http.Request, repo library.Repository,
	authorId, bookId uuid.UUID, dto *types.BookForUpdate) {

	book := mapping.BookFromUpdate(dto)
	book.Id = bookId
	repo.AddBookForAuthor(authorId, book)
	if !h.save(w, r, repo) {
		return
	}

	h.rr.Created(w, r.Context(), selfLocation(r, book.Id), mapping.BookToDto(book))
}

// applyPatch patches dto and validates the result. Patch errors are reported under the DTO key
// next to the regular validation errors.
func applyPatch(doc patch.Document, dto *types.BookForUpdate) validation.Errors {
	errs := validation.Errors{}

	if err := patch.Apply(doc, dto); err != nil {
		errs.Add(validation.KeyBookForUpdate, err.Error())
	}

	errs.Merge(validation.ValidateBookForUpdate(dto))
	return errs
}
