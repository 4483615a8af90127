package response

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library/internal/validation"
)

func TestRespondAndLogError(t *testing.T) {
	cases := []struct {
		debug bool
		want  string
	}{
		{true, "Commit failed"},
		{false, "Unknown error occurred while processing your request. Error ID: "},
	}

	for _, tt := range cases {
		w := httptest.NewRecorder()
		(&Responder{DebugMode: tt.debug}).RespondAndLogError(w, context.Background(), errors.New("commit failed"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, strings.HasPrefix(body["error"], tt.want), body["error"])
	}
}

func TestCreated(t *testing.T) {
	w := httptest.NewRecorder()
	(&Responder{}).Created(w, context.Background(), "http://example.com/x/1", map[string]int{"id": 1})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "http://example.com/x/1", w.Header().Get("Location"))
	assert.JSONEq(t, `{"id":1}`, w.Body.String())
}

func TestUnprocessableEntity(t *testing.T) {
	w := httptest.NewRecorder()
	(&Responder{}).UnprocessableEntity(w, context.Background(), validation.Errors{"title": {`"title" is required`}})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"title":["\"title\" is required"]}`, w.Body.String())
}

func TestBodylessStatuses(t *testing.T) {
	rr := &Responder{}

	w := httptest.NewRecorder()
	rr.NotFound(w)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Body.String())

	w = httptest.NewRecorder()
	rr.BadRequest(w)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	rr.NoContent(w)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSendFeed(t *testing.T) {
	w := httptest.NewRecorder()
	(&Responder{}).SendFeed(w, context.Background(), struct {
		ID    string `xml:"id"`
		Title string `xml:"title"`
	}{ID: "urn:x", Title: "Books"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ContentTypeAtom, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `<feed xmlns="http://www.w3.org/2005/Atom">`)
	assert.Contains(t, w.Body.String(), "<title>Books</title>")
}
