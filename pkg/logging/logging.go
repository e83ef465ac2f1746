package logging

import (
	"context"
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

type ctxKey string

const slogFields ctxKey = "slog_fields"

// ContextHandler adds the attrs stored on the context to every record
type ContextHandler struct {
	slog.Handler
}

// Handle adds contextual attributes to the Record before calling the underlying handler
func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(slogFields).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}
	return h.Handler.Handle(ctx, r)
}

// WithAttrs keeps the context wrapper around derived handlers
func (h ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return ContextHandler{h.Handler.WithAttrs(attrs)}
}

// WithGroup keeps the context wrapper around derived handlers
func (h ContextHandler) WithGroup(name string) slog.Handler {
	return ContextHandler{h.Handler.WithGroup(name)}
}

// AppendCtx adds slog attributes to the provided context so that they are
// included in any record created with that context
func AppendCtx(parent context.Context, attrs ...slog.Attr) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	var merged []slog.Attr
	if v, ok := parent.Value(slogFields).([]slog.Attr); ok {
		merged = append(merged, v...)
	}
	merged = append(merged, attrs...)
	return context.WithValue(parent, slogFields, merged)
}

// Logger builds a text or JSON logger at level that honours AppendCtx
func Logger(w io.Writer, json bool, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if json {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(ContextHandler{h})
}

// RotatingWriter is a size and age bounded log file
func RotatingWriter(path string, maxMB, backups, maxAgeDays int) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxMB,
		MaxBackups: backups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}
}
