package logger

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
)

const tagKey = "tag" // The slog attribute key used for filtering tags

// filteringHandler wraps a base slog.Handler and drops records by package,
// file or tag.
type filteringHandler struct {
	base    slog.Handler
	filters *filters
}

func newFilteringHandler(base slog.Handler, f *filters) *filteringHandler {
	return &filteringHandler{base: base, filters: f}
}

func (h *filteringHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

// allowed applies an enabled/disabled pair. Disabled wins; an enabled list
// admits only its members.
func allowed(enabled, disabled map[string]struct{}, key string) bool {
	key = strings.ToLower(key)
	if _, found := disabled[key]; found {
		return false
	}
	if enabled != nil {
		_, found := enabled[key]
		return found
	}
	return true
}

func (h *filteringHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.filters == nil || h.filters.empty() {
		return h.base.Handle(ctx, r)
	}

	if r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		if frame.File != "" {
			file := filepath.Base(frame.File)
			pkg := filepath.Base(filepath.Dir(frame.File))
			if !allowed(h.filters.enabledPackages, h.filters.disabledPackages, pkg) ||
				!allowed(h.filters.enabledFiles, h.filters.disabledFiles, file) {
				return nil
			}
		}
	}

	tag := ""
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == tagKey {
			tag = a.Value.String()
			return false
		}
		return true
	})
	if tag == "" {
		// Untagged messages are dropped only when specific tags are requested.
		if h.filters.enabledTags != nil {
			return nil
		}
	} else if !allowed(h.filters.enabledTags, h.filters.disabledTags, tag) {
		return nil
	}

	return h.base.Handle(ctx, r)
}

func (h *filteringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return newFilteringHandler(h.base.WithAttrs(attrs), h.filters)
}

func (h *filteringHandler) WithGroup(name string) slog.Handler {
	return newFilteringHandler(h.base.WithGroup(name), h.filters)
}
