package logger

import (
	"context"
	"fmt"
	"go/build"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
)

const (
	FormatText = "text"
	FormatJson = "json"
)

// SetupSLog installs the default logger writing to stderr in the given format (text or json).
// Source file paths are reported relative to rootPath (or GOPATH for dependencies) and every
// record made with a request context carries the request id stored under requestIdKey.
func SetupSLog(lvl slog.Level, format, rootPath string, requestIdKey any) error {
	h, err := NewHandler(os.Stderr, lvl, format, rootPath, requestIdKey)
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(h))
	return nil
}

func NewHandler(w io.Writer, lvl slog.Level, format, rootPath string, requestIdKey any) (slog.Handler, error) {
	ho := slog.HandlerOptions{
		Level: lvl,
	}

	var h slog.Handler
	switch format {
	case FormatJson:
		h = slog.NewJSONHandler(w, &ho)
	case FormatText:
		h = slog.NewTextHandler(w, &ho)
	default:
		return nil, fmt.Errorf("log format must be %s or %s, got %q", FormatText, FormatJson, format)
	}

	gopath := os.Getenv("GOPATH")
	if gopath == "" {
		gopath = build.Default.GOPATH
	}

	return &handler{
		baseHandler:  h,
		rootPath:     strings.TrimSuffix(rootPath, "/") + "/",
		goPath:       strings.TrimSuffix(gopath, "/") + "/",
		requestIdKey: requestIdKey,
	}, nil
}

// ParseLevel accepts debug, info, warn or error in any case.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelDebug, fmt.Errorf("invalid log level %q, one of debug, info, warn or error expected", s)
	}
	return lvl, nil
}

type handler struct {
	baseHandler  slog.Handler
	rootPath     string
	goPath       string
	requestIdKey any
}

func (e *handler) Enabled(ctx context.Context, level slog.Level) bool {
	return e.baseHandler.Enabled(ctx, level)
}

func (e *handler) Handle(ctx context.Context, record slog.Record) error {
	record = record.Clone()

	if record.PC != 0 {
		fs := runtime.CallersFrames([]uintptr{record.PC})
		f, _ := fs.Next()
		record.AddAttrs(slog.Any(slog.SourceKey, &slog.Source{
			Function: f.Function,
			File:     e.trimPath(f.File),
			Line:     f.Line,
		}))
	}

	if ctx != nil && e.requestIdKey != nil {
		if requestId, ok := ctx.Value(e.requestIdKey).(string); ok && requestId != "" {
			record.AddAttrs(slog.String("request_id", requestId))
		}
	}

	return e.baseHandler.Handle(ctx, record)
}

func (e *handler) trimPath(file string) string {
	if strings.HasPrefix(file, e.rootPath) {
		return file[len(e.rootPath):]
	}
	if strings.HasPrefix(file, e.goPath) {
		return file[len(e.goPath):]
	}
	return file
}

func (e *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return e.with(e.baseHandler.WithAttrs(attrs))
}

func (e *handler) WithGroup(name string) slog.Handler {
	return e.with(e.baseHandler.WithGroup(name))
}

func (e *handler) with(base slog.Handler) *handler {
	return &handler{
		baseHandler:  base,
		rootPath:     e.rootPath,
		goPath:       e.goPath,
		requestIdKey: e.requestIdKey,
	}
}
