package server

import (
	"net/http"
	"time"

	"library/internal/mapping"
	"library/internal/types"
	"library/internal/validation"
)

func (h *handlers) getAuthors(w http.ResponseWriter, r *http.Request) {
	authors, err := h.store.Begin().GetAuthors(r.Context())
	if err != nil {
		h.rr.RespondAndLogError(w, r.Context(), err)
		return
	}

	h.rr.SendJson(w, r.Context(), http.StatusOK, mapping.AuthorsToDtos(authors, time.Now()))
}

func (h *handlers) getAuthor(w http.ResponseWriter, r *http.Request) {
	authorId, ok := pathId(r, "authorId")
	if !ok {
		h.rr.NotFound(w)
		return
	}

	author, err := h.store.Begin().GetAuthor(r.Context(), authorId)
	if err != nil {
		h.rr.RespondAndLogError(w, r.Context(), err)
		return
	}
	if author == nil {
		h.rr.NotFound(w)
		return
	}

	h.rr.SendJson(w, r.Context(), http.StatusOK, mapping.AuthorToDto(author, time.Now()))
}

// createAuthor stores the author together with any books nested in the payload.
func (h *handlers) createAuthor(w http.ResponseWriter, r *http.Request) {
	dto, err := decodeBody[types.AuthorForCreation](w, r)
	if err != nil || dto == nil {
		h.badRequest(w, r, err)
		return
	}

	if errs := validation.ValidateAuthorForCreation(dto); !errs.Valid() {
		h.rr.UnprocessableEntity(w, r.Context(), errs)
		return
	}

	author, books, err := mapping.AuthorFromCreation(dto)
	if err != nil {
		errs := validation.Errors{}
		errs.Add("dateOfBirth", err.Error())
		h.rr.UnprocessableEntity(w, r.Context(), errs)
		return
	}

	repo := h.store.Begin()
	repo.AddAuthor(author)
	for _, b := range books {
		repo.AddBookForAuthor(author.Id, b)
	}
	if !h.save(w, r, repo) {
		return
	}

	h.rr.Created(w, r.Context(), childLocation(r, author.Id), mapping.AuthorToDto(author, time.Now()))
}
