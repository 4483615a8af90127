package response

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"log/slog"
	"net/http"
	"runtime"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/segmentio/encoding/json"

	"library/internal/validation"
)

const (
	contentTypeJson = "application/json; charset=utf-8"
	ContentTypeAtom = "application/atom+xml;profile=opds-catalog;kind=acquisition"
)

type Responder struct {
	DebugMode bool
}

// RespondAndLogError will respond with generic error code (500) and log with slog.LevelError level
func (rr *Responder) RespondAndLogError(w http.ResponseWriter, ctx context.Context, err error) {
	errId := uuid.NewString()
	log(ctx, slog.LevelError, err.Error(), slog.String("err_id", errId))
	rr.renderError(w, ctx, http.StatusInternalServerError, err.Error(), errId)
}

func (rr *Responder) SendJson(w http.ResponseWriter, ctx context.Context, status int, data any) {
	bs, err := json.Marshal(data)
	if err != nil {
		rr.RespondAndLogError(w, ctx, err)
		return
	}

	w.Header().Set("Content-Type", contentTypeJson)
	w.WriteHeader(status)
	_, _ = io.Copy(w, bytes.NewReader(bs))
}

// Created answers 201 with a Location header pointing at the new resource.
func (rr *Responder) Created(w http.ResponseWriter, ctx context.Context, location string, data any) {
	w.Header().Set("Location", location)
	rr.SendJson(w, ctx, http.StatusCreated, data)
}

// SendFeed renders v as an Atom document whose root element is <feed>.
func (rr *Responder) SendFeed(w http.ResponseWriter, ctx context.Context, v any) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	err := enc.EncodeElement(v, xml.StartElement{
		Name: xml.Name{Local: "feed"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "xmlns"}, Value: "http://www.w3.org/2005/Atom"}},
	})
	if err == nil {
		err = enc.Flush()
	}
	if err != nil {
		rr.RespondAndLogError(w, ctx, err)
		return
	}

	w.Header().Set("Content-Type", ContentTypeAtom)
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, &buf)
}

func (rr *Responder) NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func (rr *Responder) NotFound(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNotFound)
}

func (rr *Responder) BadRequest(w http.ResponseWriter) {
	w.WriteHeader(http.StatusBadRequest)
}

// UnprocessableEntity answers 422 with the field errors as the body, logged at debug level.
func (rr *Responder) UnprocessableEntity(w http.ResponseWriter, ctx context.Context, errs validation.Errors) {
	log(ctx, slog.LevelDebug, "validation failed", slog.Any("errors", errs))
	rr.SendJson(w, ctx, http.StatusUnprocessableEntity, errs)
}

func (rr *Responder) renderError(w http.ResponseWriter, ctx context.Context, status int, message, errId string) {
	data := map[string]any{}

	if rr.DebugMode {
		r, s := utf8.DecodeRuneInString(message)
		data["error"] = string(unicode.ToUpper(r)) + message[s:]
	} else {
		data["error"] = "Unknown error occurred while processing your request. Error ID: " + errId
	}

	bs, err := json.Marshal(data)
	if err == nil {
		w.Header().Set("Content-Type", contentTypeJson)
	} else {
		log(ctx, slog.LevelError, "cannot marshall error response body: "+err.Error())
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		bs = []byte("unknown error")
	}

	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = io.Copy(w, bytes.NewReader(bs))
}

// Needed because it skips one more frame item than the slog.Log
func log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	l := slog.Default()

	if !l.Enabled(ctx, level) {
		return
	}

	var pc uintptr
	var pcs [1]uintptr
	// skip [runtime.Callers, this function, this function's caller]
	runtime.Callers(3, pcs[:])
	pc = pcs[0]

	r := slog.NewRecord(time.Now(), level, msg, pc)
	r.AddAttrs(attrs...)
	_ = l.Handler().Handle(ctx, r)
}
