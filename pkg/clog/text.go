package clog

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/fatih/color"
)

type TextHandlerConfig struct {
	Color bool
	Level slog.Leveler
}

type TextHandlerOption func(*TextHandlerConfig)

func WithColor(enabled bool) TextHandlerOption {
	return func(cfg *TextHandlerConfig) {
		cfg.Color = enabled
	}
}

func WithLevel(level slog.Level) TextHandlerOption {
	return func(cfg *TextHandlerConfig) {
		cfg.Level = level
	}
}

// HTTPTextHandler is a human-oriented handler for local development. The
// request columns (proto, method, path, status) lead the line, remaining
// attributes follow indented and sorted.
type HTTPTextHandler struct {
	cfg   TextHandlerConfig
	attrs []slog.Attr
	mu    *sync.Mutex
	w     io.Writer
}

func NewHTTPTextHandler(w io.Writer, opts ...TextHandlerOption) *HTTPTextHandler {
	cfg := TextHandlerConfig{Color: true, Level: slog.LevelInfo}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &HTTPTextHandler{cfg: cfg, mu: &sync.Mutex{}, w: w}
}

func (h *HTTPTextHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.cfg.Level.Level()
}

func (h *HTTPTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = append(slices.Clone(h.attrs), attrs...)
	return &nh
}

// WithGroup is ignored; the text layout is flat.
func (h *HTTPTextHandler) WithGroup(string) slog.Handler {
	return h
}

func (h *HTTPTextHandler) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if h.cfg.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func (h *HTTPTextHandler) Handle(_ context.Context, record slog.Record) error {
	var buf bytes.Buffer

	plain := h.paint()
	plain.Fprintf(&buf, "%s ", record.Time.Format(time.RFC3339))
	h.paint(levelColor(record.Level)).Fprintf(&buf, "%s ", record.Level)

	kv := make(map[string]slog.Value, len(h.attrs)+record.NumAttrs())
	for _, a := range h.attrs {
		kv[a.Key] = a.Value
	}
	record.Attrs(func(a slog.Attr) bool {
		kv[a.Key] = a.Value
		return true
	})
	for _, key := range []string{"proto", "method", "path", "status"} {
		if v, ok := kv[key]; ok {
			plain.Fprintf(&buf, "%s ", v)
			delete(kv, key)
		}
	}

	h.paint(color.FgGreen).Fprint(&buf, record.Message)
	if e, ok := kv[ErrorAttributeKey]; ok {
		delete(kv, ErrorAttributeKey)
		h.paint(color.FgRed).Fprintf(&buf, " %s", e)
	}
	buf.WriteByte('\n')

	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		plain.Fprintf(&buf, "    %s=%s\n", k, kv[k])
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func levelColor(l slog.Level) color.Attribute {
	switch {
	case l >= slog.LevelError:
		return color.FgRed
	case l >= slog.LevelWarn:
		return color.FgYellow
	case l >= slog.LevelInfo:
		return color.FgBlue
	default:
		return color.FgCyan
	}
}
