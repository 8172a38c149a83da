package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"go.trai.ch/hgresolve/internal/ui/output"
	"go.trai.ch/hgresolve/internal/ui/style"
)

// Attribute keys that the pretty handler renders as tags instead of key=value pairs.
const (
	codeKey   = "code"
	eventKey  = "event"
	actionKey = "action"
)

// PrettyHandler is a custom slog.Handler that produces human-readable,
// colored output using the shared UI components.
type PrettyHandler struct {
	mu    *sync.Mutex
	out   *termenv.Output
	level slog.Leveler
	attrs []slog.Attr
	group string
}

// NewPrettyHandler creates a new PrettyHandler writing to the provided writer.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level.Level()
	}

	levelVar := &slog.LevelVar{}
	levelVar.Set(level)

	return &PrettyHandler{
		mu:    &sync.Mutex{},
		out:   output.New(w),
		level: levelVar,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and outputs the log record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var tag string
	attrParts := make([]string, 0, len(h.attrs)+r.NumAttrs())
	isAction := false

	collect := func(attr slog.Attr) {
		switch attr.Key {
		case codeKey, eventKey:
			tag = "[" + attr.Value.String() + "] "
		case actionKey:
			isAction = true
		default:
			attrParts = append(attrParts, formatAttr(h.group, attr))
		}
	}
	for _, attr := range h.attrs {
		collect(attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		collect(attr)
		return true
	})

	var msg string
	var color termenv.Color

	switch {
	case r.Level == slog.LevelWarn:
		msg = style.Warning + " " + tag + r.Message
		color = termenv.RGBColor(string(style.Yellow))
	case r.Level == slog.LevelError:
		msg = style.Cross + " " + tag + r.Message
		color = termenv.RGBColor(string(style.Red))
	case isAction:
		msg = style.Dot + " " + tag + r.Message
		color = termenv.RGBColor(string(style.Iris))
	default:
		msg = tag + r.Message
		color = termenv.RGBColor(string(style.Slate))
	}

	if len(attrParts) > 0 {
		msg += " " + strings.Join(attrParts, " ")
	}

	styled := h.out.String(msg).Foreground(color)

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.WriteString(styled.String() + "\n")

	return err
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)

	return &PrettyHandler{
		mu:    h.mu,
		out:   h.out,
		level: h.level,
		attrs: newAttrs,
		group: h.group,
	}
}

// WithGroup returns a new Handler with the given group name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	return &PrettyHandler{
		mu:    h.mu,
		out:   h.out,
		level: h.level,
		attrs: h.attrs,
		group: name,
	}
}

// formatAttr formats a single attribute for output.
// If a group is set, the key is prefixed with the group name.
func formatAttr(group string, attr slog.Attr) string {
	key := attr.Key
	if group != "" {
		key = group + "." + key
	}
	return key + "=" + attr.Value.String()
}
