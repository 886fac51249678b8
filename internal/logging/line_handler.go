package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

type lineStyle int

const (
	styleStatus lineStyle = iota
	styleConsole
)

// lineHandler renders one human-readable line per record.
type lineHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     *slog.LevelVar
	style     lineStyle
	addSource bool
	attrs     []slog.Attr
	groups    []string
}

func newLineHandler(w io.Writer, level *slog.LevelVar, style lineStyle, addSource bool) *lineHandler {
	return &lineHandler{
		mu:        &sync.Mutex{},
		w:         w,
		level:     level,
		style:     style,
		addSource: addSource,
	}
}

func (h *lineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *lineHandler) Handle(_ context.Context, record slog.Record) error {
	var b strings.Builder
	component := ""
	fields := make([]string, 0, len(h.attrs)+record.NumAttrs())

	collect := func(attr slog.Attr) {
		attr.Value = attr.Value.Resolve()
		if attr.Equal(slog.Attr{}) {
			return
		}
		if attr.Key == FieldComponent {
			component = attrString(attr.Value)
			return
		}
		if h.style == styleStatus && attr.Key == FieldRunID {
			return
		}
		fields = appendField(fields, h.groups, attr)
	}
	for _, attr := range h.attrs {
		collect(attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		collect(attr)
		return true
	})

	switch h.style {
	case styleStatus:
		b.WriteString(statusPrefix(record.Level))
		b.WriteString(record.Message)
	default:
		ts := record.Time
		if ts.IsZero() {
			ts = time.Now()
		}
		b.WriteString(ts.Local().Format("2006-01-02 15:04:05"))
		b.WriteByte(' ')
		b.WriteString(levelLabel(record.Level))
		if component != "" {
			b.WriteString(" [")
			b.WriteString(component)
			b.WriteByte(']')
		}
		b.WriteByte(' ')
		b.WriteString(record.Message)
	}

	if len(fields) > 0 {
		b.WriteByte(' ')
		b.WriteString(strings.Join(fields, " "))
	}

	if h.addSource && record.PC != 0 {
		if src := record.Source(); src != nil && src.File != "" {
			fmt.Fprintf(&b, " (%s:%d)", filepath.Base(src.File), src.Line)
		}
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	clone.attrs = append(clone.attrs, attrs...)
	return &clone
}

func (h *lineHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string{}, h.groups...), name)
	return &clone
}

func appendField(fields []string, groups []string, attr slog.Attr) []string {
	key := attr.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}
	if attr.Value.Kind() == slog.KindGroup {
		nested := append(append([]string{}, groups...), attr.Key)
		for _, child := range attr.Value.Group() {
			fields = appendField(fields, nested, child)
		}
		return fields
	}
	return append(fields, key+"="+formatValue(attr.Value))
}

func statusPrefix(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "Error: "
	case level >= slog.LevelWarn:
		return "Warning: "
	default:
		return "Status: "
	}
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
