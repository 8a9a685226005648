package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const consoleTimeLayout = "15:04:05"

// consoleHandler writes one line per record:
//
//	15:04:05 WARN  analysis/derive_year: year derivation failed row=6 title=Paddington
//
// Component and stage move into the line prefix. Run IDs only show at debug
// level since a console session is a single run.
type consoleHandler struct {
	out       *lockedWriter
	level     slog.Leveler
	addSource bool
	component string
	stage     string
	runID     string
	group     string
	fields    string
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func newConsoleHandler(w io.Writer, level slog.Leveler, addSource bool) slog.Handler {
	return &consoleHandler{out: &lockedWriter{w: w}, level: level, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	line := h.clone()
	var fields strings.Builder
	fields.WriteString(h.fields)
	record.Attrs(func(attr slog.Attr) bool {
		line.appendAttr(&fields, attr)
		return true
	})

	var b strings.Builder
	b.WriteString(ts.Format(consoleTimeLayout))
	b.WriteByte(' ')
	fmt.Fprintf(&b, "%-5s", levelLabel(record.Level))
	if scope := joinNonEmpty("/", line.component, line.stage); scope != "" {
		b.WriteByte(' ')
		b.WriteString(scope)
		b.WriteByte(':')
	}
	b.WriteByte(' ')
	if msg := strings.TrimSpace(record.Message); msg != "" {
		b.WriteString(msg)
	} else {
		b.WriteString("(no message)")
	}
	b.WriteString(fields.String())
	if line.runID != "" && record.Level < slog.LevelInfo {
		b.WriteString(" run_id=")
		b.WriteString(quoteIfNeeded(line.runID))
	}
	if h.addSource {
		if src := record.Source(); src != nil && src.File != "" {
			fmt.Fprintf(&b, " (%s:%d)", filepath.Base(src.File), src.Line)
		}
	}
	b.WriteByte('\n')

	h.out.mu.Lock()
	defer h.out.mu.Unlock()
	_, err := io.WriteString(h.out.w, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	var fields strings.Builder
	fields.WriteString(h.fields)
	for _, attr := range attrs {
		clone.appendAttr(&fields, attr)
	}
	clone.fields = fields.String()
	return clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := h.clone()
	clone.group = h.group + name + "."
	return clone
}

func (h *consoleHandler) clone() *consoleHandler {
	c := *h
	return &c
}

// appendAttr renders attr as " key=value". Top-level component, stage and
// run ID attributes are held on the handler instead; later values win.
func (h *consoleHandler) appendAttr(b *strings.Builder, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}
	if attr.Value.Kind() == slog.KindGroup {
		group := h.group
		if attr.Key != "" {
			h.group = group + attr.Key + "."
		}
		for _, inner := range attr.Value.Group() {
			h.appendAttr(b, inner)
		}
		h.group = group
		return
	}
	if h.group == "" {
		switch attr.Key {
		case FieldComponent:
			h.component = plainValue(attr.Value)
			return
		case FieldStage:
			h.stage = plainValue(attr.Value)
			return
		case FieldRunID:
			h.runID = plainValue(attr.Value)
			return
		}
	}
	b.WriteByte(' ')
	b.WriteString(h.group)
	b.WriteString(attr.Key)
	b.WriteByte('=')
	b.WriteString(quoteIfNeeded(plainValue(attr.Value)))
}

func plainValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	default:
		return v.String()
	}
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsFunc(s, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) {
		return strconv.Quote(s)
	}
	return s
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
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
