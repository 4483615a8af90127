package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library/internal/mapping"
	"library/internal/types"
	"library/internal/validation"
)

func TestGetAuthors(t *testing.T) {
	e := newEnv(t)

	res := e.do(t, http.MethodGet, "/api/authors", "")
	require.Equal(t, http.StatusOK, res.StatusCode)

	authors := decode[[]types.AuthorDto](t, res)
	require.Len(t, authors, 1)
	assert.Equal(t, types.AuthorDto{
		Id:    e.author.Id,
		Name:  "Stephen King",
		Age:   mapping.Age(e.author.DateOfBirth, time.Now()),
		Genre: "Horror",
	}, authors[0])
}

func TestGetAuthor(t *testing.T) {
	e := newEnv(t)

	res := e.do(t, http.MethodGet, "/api/authors/"+e.author.Id.String(), "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "Stephen King", decode[types.AuthorDto](t, res).Name)

	res = e.do(t, http.MethodGet, "/api/authors/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res = e.do(t, http.MethodGet, "/api/authors/nope", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestCreateAuthorWithBooks(t *testing.T) {
	e := newEnv(t)

	res := e.do(t, http.MethodPost, "/api/authors", `{
		"firstName": "Terry",
		"lastName": "Pratchett",
		"dateOfBirth": "1948-04-28",
		"genre": "Fantasy",
		"books": [
			{"title": "Mort", "description": "Death takes an apprentice"},
			{"title": "Guards! Guards!", "description": "A dragon in Ankh-Morpork"}
		]
	}`)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	created := decode[types.AuthorDto](t, res)
	assert.Equal(t, "Terry Pratchett", created.Name)
	assert.Equal(t, e.srv.URL+"/api/authors/"+created.Id.String(), res.Header.Get("Location"))

	res = e.do(t, http.MethodGet, e.booksPath(created.Id), "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	books := decode[[]types.BookDto](t, res)
	require.Len(t, books, 2)
	assert.Equal(t, "Guards! Guards!", books[0].Title)
	assert.Equal(t, "Mort", books[1].Title)
}

func TestCreateAuthorRejections(t *testing.T) {
	e := newEnv(t)

	res := e.do(t, http.MethodPost, "/api/authors", "null")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = e.do(t, http.MethodPost, "/api/authors", `{
		"firstName": "Terry",
		"lastName": "Pratchett",
		"dateOfBirth": "1948-04-28",
		"books": [{"title": "Same", "description": "Same"}]
	}`)
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	errs := decode[validation.Errors](t, res)
	assert.Equal(t, []string{validation.MsgDescriptionEqualsTitle}, errs["books[0]"])

	res = e.do(t, http.MethodPost, "/api/authors", `{"firstName":"T","lastName":"P","dateOfBirth":"1948-02-31"}`)
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Contains(t, decode[validation.Errors](t, res), "dateOfBirth")

	res = e.do(t, http.MethodGet, "/api/authors", "")
	assert.Len(t, decode[[]types.AuthorDto](t, res), 1)
}
