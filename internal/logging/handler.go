package logging

import (
	"context"
	"errors"
	"log/slog"
)

// ContextProvider returns attributes that are added to every record at the
// time it is logged, such as the preset of the open board.
type ContextProvider func() []slog.Attr

// tee sends every record to each of its handlers.
type tee []slog.Handler

// Tee combines handlers into one. Nil handlers are dropped; with none left
// records are discarded.
func Tee(handlers ...slog.Handler) slog.Handler {
	var t tee
	for _, h := range handlers {
		if h != nil {
			t = append(t, h)
		}
	}
	switch len(t) {
	case 0:
		return slog.DiscardHandler
	case 1:
		return t[0]
	}
	return t
}

func (t tee) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle writes to every enabled handler and joins their errors.
func (t tee) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t tee) WithAttrs(attrs []slog.Attr) slog.Handler {
	return t.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (t tee) WithGroup(name string) slog.Handler {
	if name == "" {
		return t
	}
	return t.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (t tee) each(fn func(slog.Handler) slog.Handler) tee {
	next := make(tee, len(t))
	for i, h := range t {
		next[i] = fn(h)
	}
	return next
}

// contextual appends provider attributes to each record.
type contextual struct {
	slog.Handler
	provider ContextProvider
}

// WithContext wraps h so that records carry the attributes of provider.
// Attributes with an empty key are skipped.
func WithContext(h slog.Handler, provider ContextProvider) slog.Handler {
	if provider == nil {
		return h
	}
	return &contextual{Handler: h, provider: provider}
}

func (c *contextual) Handle(ctx context.Context, r slog.Record) error {
	for _, a := range c.provider() {
		if a.Key != "" {
			r.AddAttrs(a)
		}
	}
	return c.Handler.Handle(ctx, r)
}

func (c *contextual) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextual{Handler: c.Handler.WithAttrs(attrs), provider: c.provider}
}

func (c *contextual) WithGroup(name string) slog.Handler {
	if name == "" {
		return c
	}
	return &contextual{Handler: c.Handler.WithGroup(name), provider: c.provider}
}
