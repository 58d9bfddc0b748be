package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const tagKey = "tag" // attribute key the tag filters look at

// filteringHandler wraps a base slog.Handler and drops records by tag,
// package or file.
type filteringHandler struct {
	baseHandler slog.Handler
	cfg         *Config
}

func newFilteringHandler(base slog.Handler, cfg *Config) *filteringHandler {
	return &filteringHandler{baseHandler: base, cfg: cfg}
}

func (h *filteringHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.baseHandler.Enabled(ctx, level)
}

// allowed applies one enabled/disabled pair. An empty value is only rejected
// when an enabled list exists and requireValue is set.
func allowed(value string, enabled, disabled map[string]struct{}, requireValue bool) bool {
	if value == "" {
		return !(requireValue && enabled != nil)
	}
	value = strings.ToLower(value)
	if _, found := disabled[value]; found {
		return false
	}
	if enabled != nil {
		_, found := enabled[value]
		return found
	}
	return true
}

func (h *filteringHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.cfg == nil {
		return h.baseHandler.Handle(ctx, r)
	}

	var pkg, file string
	if r.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{r.PC})
		frame, _ := frames.Next()
		if frame.File != "" {
			file = filepath.Base(frame.File)
			pkg = filepath.Base(filepath.Dir(frame.File))
		}
	}

	var tag string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == tagKey {
			tag = a.Value.String()
			return false
		}
		return true
	})

	pass := allowed(pkg, h.cfg.enabledPackagesSet, h.cfg.disabledPackagesSet, false) &&
		allowed(file, h.cfg.enabledFilesSet, h.cfg.disabledFilesSet, false) &&
		allowed(tag, h.cfg.enabledTagsSet, h.cfg.disabledTagsSet, true)

	if debugFilter {
		fmt.Fprintf(os.Stderr, "[FILTER] pkg=%s file=%s tag=%s pass=%v msg=%q\n", pkg, file, tag, pass, r.Message)
	}
	if !pass {
		return nil
	}
	return h.baseHandler.Handle(ctx, r)
}

func (h *filteringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return newFilteringHandler(h.baseHandler.WithAttrs(attrs), h.cfg)
}

func (h *filteringHandler) WithGroup(name string) slog.Handler {
	return newFilteringHandler(h.baseHandler.WithGroup(name), h.cfg)
}
