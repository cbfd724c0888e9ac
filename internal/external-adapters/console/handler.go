// Package console renders log records for a human watching the terminal.
package console

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/gookit/color"
	"golang.org/x/term"
)

// Options configures the console handler
type Options struct {
	Level slog.Leveler
	Color bool
	// Verbose prefixes every record with its time in both modes
	Verbose bool
}

// NewHandler returns a colored handler when opts.Color is set and a plain
// slog.TextHandler otherwise
func NewHandler(w io.Writer, opts Options) slog.Handler {
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}
	if !opts.Color {
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: opts.Level, ReplaceAttr: plainAttr(opts.Verbose)})
	}
	return &handler{
		out:  w,
		mu:   &sync.Mutex{},
		opts: opts,
	}
}

// plainAttr drops the time attribute unless verbose output was requested
func plainAttr(verbose bool) func([]string, slog.Attr) slog.Attr {
	if verbose {
		return nil
	}
	return func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) == 0 && a.Key == slog.TimeKey {
			return slog.Attr{}
		}
		return a
	}
}

// IsTerminal reports whether f is attached to an interactive terminal
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// LevelFor maps the CLI verbosity flags to a log level
func LevelFor(quiet, debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	if quiet {
		return slog.LevelWarn
	}
	return slog.LevelInfo
}

type handler struct {
	out    io.Writer
	mu     *sync.Mutex
	opts   Options
	attrs  []slog.Attr
	groups []string
}

func (h *handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *handler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if h.opts.Verbose && !r.Time.IsZero() {
		buf.WriteString(color.FgDarkGray.Sprint(r.Time.Format(time.TimeOnly)))
		buf.WriteByte(' ')
	}

	buf.WriteString(levelStyle(r.Level).Sprint(levelLabel(r.Level)))
	buf.WriteByte(' ')
	buf.WriteString(r.Message)

	for _, a := range h.attrs {
		writeAttr(&buf, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&buf, h.qualify(a))
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

// qualify prefixes the key with the groups open on h
func (h *handler) qualify(a slog.Attr) slog.Attr {
	if a.Key == "" {
		return a
	}
	for i := len(h.groups) - 1; i >= 0; i-- {
		a.Key = h.groups[i] + "." + a.Key
	}
	return a
}

func writeAttr(buf *bytes.Buffer, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	buf.WriteByte(' ')
	buf.WriteString(color.Cyan.Sprint(a.Key))
	buf.WriteByte('=')
	fmt.Fprint(buf, a.Value.Any())
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]slog.Attr{}, h.attrs...)
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, h.qualify(a))
	}
	return &clone
}

func (h *handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string{}, h.groups...), name)
	return &clone
}

func levelLabel(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "error"
	case l >= slog.LevelWarn:
		return "warn"
	case l >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}

func levelStyle(l slog.Level) color.Style {
	switch {
	case l >= slog.LevelError:
		return color.New(color.FgRed, color.OpBold)
	case l >= slog.LevelWarn:
		return color.New(color.FgYellow, color.OpBold)
	case l >= slog.LevelInfo:
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgDarkGray)
	}
}
