package secrets

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// Redacted replaces secret values in log output.
const Redacted = "[REDACTED]"

// RedactFilter wraps a slog handler and scrubs registered key values from
// messages and string, error and group attributes.
type RedactFilter struct {
	inner   slog.Handler
	mu      *sync.RWMutex
	secrets map[string]struct{}
}

// NewRedactFilter creates a log handler that redacts registered values.
func NewRedactFilter(inner slog.Handler) *RedactFilter {
	return &RedactFilter{
		inner:   inner,
		mu:      &sync.RWMutex{},
		secrets: make(map[string]struct{}),
	}
}

// AddSecret registers a value to be redacted. Empty values are ignored.
func (f *RedactFilter) AddSecret(value string) {
	if value == "" {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.secrets[value] = struct{}{}
}

func (f *RedactFilter) replacer() *strings.Replacer {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if len(f.secrets) == 0 {
		return nil
	}
	pairs := make([]string, 0, 2*len(f.secrets))
	for s := range f.secrets {
		pairs = append(pairs, s, Redacted)
	}
	return strings.NewReplacer(pairs...)
}

// Enabled delegates to the inner handler.
func (f *RedactFilter) Enabled(ctx context.Context, level slog.Level) bool {
	return f.inner.Enabled(ctx, level)
}

// Handle redacts the record before passing it on.
func (f *RedactFilter) Handle(ctx context.Context, record slog.Record) error {
	rep := f.replacer()
	if rep == nil {
		return f.inner.Handle(ctx, record)
	}

	redacted := slog.NewRecord(record.Time, record.Level, rep.Replace(record.Message), record.PC)
	record.Attrs(func(a slog.Attr) bool {
		redacted.AddAttrs(redactAttr(a, rep))
		return true
	})
	return f.inner.Handle(ctx, redacted)
}

// WithAttrs shares the parent's secret set so later AddSecret calls apply.
// Attributes bound here are redacted with the secrets known at bind time.
func (f *RedactFilter) WithAttrs(attrs []slog.Attr) slog.Handler {
	if rep := f.replacer(); rep != nil {
		scrubbed := make([]slog.Attr, len(attrs))
		for i, a := range attrs {
			scrubbed[i] = redactAttr(a, rep)
		}
		attrs = scrubbed
	}
	return &RedactFilter{
		inner:   f.inner.WithAttrs(attrs),
		mu:      f.mu,
		secrets: f.secrets,
	}
}

// WithGroup shares the parent's secret set.
func (f *RedactFilter) WithGroup(name string) slog.Handler {
	return &RedactFilter{
		inner:   f.inner.WithGroup(name),
		mu:      f.mu,
		secrets: f.secrets,
	}
}

func redactAttr(a slog.Attr, rep *strings.Replacer) slog.Attr {
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return slog.String(a.Key, rep.Replace(v.String()))
	case slog.KindGroup:
		group := v.Group()
		out := make([]any, len(group))
		for i, g := range group {
			out[i] = redactAttr(g, rep)
		}
		return slog.Group(a.Key, out...)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return slog.String(a.Key, rep.Replace(err.Error()))
		}
	}
	return a
}

// RedactString replaces registered values in s.
func (f *RedactFilter) RedactString(s string) string {
	if rep := f.replacer(); rep != nil {
		return rep.Replace(s)
	}
	return s
}

// Mask hides all but the last four characters of a key. Keys of eight
// characters or fewer are fully masked.
func Mask(key string) string {
	r := []rune(key)
	if len(r) <= 8 {
		return strings.Repeat("*", len(r))
	}
	return strings.Repeat("*", len(r)-4) + string(r[len(r)-4:])
}
