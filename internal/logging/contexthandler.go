// Package logging extends log/slog with attributes carried in context.Context.
package logging

import (
	"context"
	"fmt"
	"log/slog"
)

type contextKey struct{}

var attrsKey contextKey

// ContextHandler decorates an slog.Handler so that attributes attached to the
// context with [WithAttrs] appear on every record logged under that context.
// Request middleware uses this to stamp trace IDs on all downstream logs.
type ContextHandler struct {
	handler slog.Handler
}

// NewContextHandler wraps h in a ContextHandler.
func NewContextHandler(h slog.Handler) *ContextHandler {
	return &ContextHandler{handler: h}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(attrsKey).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}
	if err := h.handler.Handle(ctx, r); err != nil {
		return fmt.Errorf("handle log record: %w", err)
	}
	return nil
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{handler: h.handler.WithGroup(name)}
}

// WithAttrs returns a context whose logs carry the given attributes when
// handled by a ContextHandler.
func WithAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	if existing, ok := ctx.Value(attrsKey).([]slog.Attr); ok {
		attrs = append(existing[:len(existing):len(existing)], attrs...)
	}
	return context.WithValue(ctx, attrsKey, attrs)
}
