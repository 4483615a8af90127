package server

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/segmentio/encoding/json"
)

const (
	maxBodyBytes  = 1 << 20
	atomMediaType = "application/atom+xml"
)

// decodeBody reads a JSON body into a new T. An empty body or a literal null yields nil, nil.
func decodeBody[T any](w http.ResponseWriter, r *http.Request) (*T, error) {
	bs, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(bs)) == 0 {
		return nil, nil
	}

	var dto *T
	if err = json.Unmarshal(bs, &dto); err != nil {
		return nil, err
	}

	return dto, nil
}

// pathId parses a uuid path parameter; ok is false when it is absent or malformed.
func pathId(r *http.Request, key string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, key)))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func absoluteUrl(r *http.Request, p string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd == "http" || fwd == "https" {
		scheme = fwd
	}

	return (&url.URL{Scheme: scheme, Host: r.Host, Path: p}).String()
}

// childLocation points at id under the collection addressed by r, e.g. POST /authors/1/books.
func childLocation(r *http.Request, id uuid.UUID) string {
	return absoluteUrl(r, strings.TrimSuffix(r.URL.Path, "/")+"/"+id.String())
}

// selfLocation points at id as a sibling of the item addressed by r, e.g. PUT /authors/1/books/2.
func selfLocation(r *http.Request, id uuid.UUID) string {
	return absoluteUrl(r, path.Join(path.Dir(strings.TrimSuffix(r.URL.Path, "/")), id.String()))
}

// acceptsAtom reports whether the Accept header lists the Atom media type with a non-zero quality.
func acceptsAtom(r *http.Request) bool {
	for _, mr := range strings.Split(r.Header.Get("Accept"), ",") {
		mt, params, err := mime.ParseMediaType(strings.TrimSpace(mr))
		if err != nil || mt != atomMediaType {
			continue
		}

		if q, ok := params["q"]; ok {
			if v, err := strconv.ParseFloat(q, 64); err != nil || v <= 0 {
				continue
			}
		}
		return true
	}
	return false
}
