package server

import (
	"net/http"
	"strings"

	"github.com/opds-community/libopds2-go/opds1"

	"library/internal/response"
	"library/internal/types"
)

const (
	linkRelSelf      = "self"
	linkRelAlternate = "alternate"
)

// booksFeed renders the books of one author as an OPDS 1 acquisition feed. Entry links point
// at the JSON representation of each book.
func booksFeed(r *http.Request, author *types.Author, books []*types.Book) *opds1.Feed {
	collection := strings.TrimSuffix(r.URL.Path, "/")

	feed := &opds1.Feed{
		ID:    "urn:uuid:" + author.Id.String(),
		Title: "Books by " + strings.TrimSpace(author.FirstName+" "+author.LastName),
		Links: []opds1.Link{{
			Rel:      linkRelSelf,
			Href:     collection,
			TypeLink: response.ContentTypeAtom,
		}},
		Entries: make([]opds1.Entry, 0, len(books)),
	}

	for _, b := range books {
		entry := opds1.Entry{
			ID:    "urn:uuid:" + b.Id.String(),
			Title: b.Title,
			Links: []opds1.Link{{
				Rel:      linkRelAlternate,
				Href:     collection + "/" + b.Id.String(),
				TypeLink: "application/json",
			}},
		}
		entry.Content.Content = b.Description

		feed.Entries = append(feed.Entries, entry)
	}

	return feed
}
