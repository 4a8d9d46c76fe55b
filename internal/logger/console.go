package logger

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/fatih/color"
)

var (
	debugTag   = color.New(color.FgHiBlack).Sprint("DEBUG")
	infoTag    = color.New(color.FgCyan).Sprint("INFO ")
	successTag = color.New(color.FgGreen, color.Bold).Sprint("OK   ")
	warnTag    = color.New(color.FgYellow).Sprint("WARN ")
	errorTag   = color.New(color.FgRed, color.Bold).Sprint("ERROR")
	errorMsg   = color.New(color.FgRed).SprintFunc()
	successMsg = color.New(color.FgGreen).SprintFunc()
)

// consoleHandler writes one human readable line per record:
//
//	15:04:05 ERROR alert completion rejected alert_id=A1 error=...
type consoleHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	prefix string
}

func newConsoleHandler(w io.Writer, level slog.Leveler) *consoleHandler {
	return &consoleHandler{mu: &sync.Mutex{}, w: w, level: level}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer
	if !r.Time.IsZero() {
		buf.WriteString(r.Time.Format("15:04:05"))
		buf.WriteByte(' ')
	}

	msg := r.Message
	switch {
	case r.Level >= slog.LevelError:
		buf.WriteString(errorTag)
		msg = errorMsg(msg)
	case r.Level >= slog.LevelWarn:
		buf.WriteString(warnTag)
	case r.Level >= LevelSuccess:
		buf.WriteString(successTag)
		msg = successMsg(msg)
	case r.Level >= slog.LevelInfo:
		buf.WriteString(infoTag)
	default:
		buf.WriteString(debugTag)
	}
	buf.WriteByte(' ')
	buf.WriteString(msg)

	for _, a := range h.attrs {
		writeAttr(&buf, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&buf, h.prefix, a)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			writeAttr(buf, prefix+a.Key+".", ga)
		}
		return
	}
	fmt.Fprintf(buf, " %s%s=%v", prefix, a.Key, a.Value.Any())
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		next.attrs = append(next.attrs, a)
	}
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}
