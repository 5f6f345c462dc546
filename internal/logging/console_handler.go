package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"grimm.is/wafplan/internal/brand"
)

// ConsoleHandler is a slog.Handler that writes logs in a human-readable format:
// TIMESTAMP [level] component: Message key=value
type ConsoleHandler struct {
	opts  slog.HandlerOptions
	out   io.Writer
	mu    sync.Mutex
	attrs []slog.Attr
}

// NewConsoleHandler creates a new ConsoleHandler.
func NewConsoleHandler(out io.Writer, opts *slog.HandlerOptions) *ConsoleHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &ConsoleHandler{
		out:  out,
		opts: *opts,
	}
}

// Enabled reports whether the handler is enabled for this level.
func (h *ConsoleHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// Handle handles the Record.
func (h *ConsoleHandler) Handle(ctx context.Context, r slog.Record) error {
	buf := make([]byte, 0, 512)

	t := r.Time
	if t.IsZero() {
		t = time.Now()
	}
	buf = append(buf, t.Format(time.RFC3339)...)
	buf = append(buf, ' ')

	buf = append(buf, brand.LowerName...)
	buf = append(buf, ": ["...)
	buf = append(buf, strings.ToLower(r.Level.String())...)
	buf = append(buf, "] "...)

	// Promote the component attribute, if any, into the header.
	component := ""
	for _, a := range h.attrs {
		if a.Key == "component" {
			component = strings.ToLower(a.Value.String())
		}
	}
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "component" {
			component = strings.ToLower(a.Value.String())
			return false
		}
		return true
	})
	if component != "" {
		buf = append(buf, component...)
		buf = append(buf, ": "...)
	}

	buf = append(buf, r.Message...)

	for _, a := range h.attrs {
		if a.Key == "component" {
			continue
		}
		buf = append(buf, ' ')
		appendAttr(&buf, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "component" {
			return true
		}
		buf = append(buf, ' ')
		appendAttr(&buf, a)
		return true
	})

	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf)
	return err
}

// WithAttrs returns a new handler with the given attributes pre-bound.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	combined := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	combined = append(combined, h.attrs...)
	combined = append(combined, attrs...)
	return &ConsoleHandler{
		opts:  h.opts,
		out:   h.out,
		attrs: combined,
	}
}

// WithGroup is accepted but flattened; groups add little for a CLI tool.
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	return h
}

func appendAttr(buf *[]byte, a slog.Attr) {
	*buf = append(*buf, a.Key...)
	*buf = append(*buf, '=')
	v := a.Value.String()
	if strings.ContainsAny(v, " \t") {
		*buf = append(*buf, fmt.Sprintf("%q", v)...)
	} else {
		*buf = append(*buf, v...)
	}
}
