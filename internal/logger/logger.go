package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

type Config struct {
	Level  string
	Format string // "text", "json", "console"
	Output io.Writer
	// File, when set, appends log lines to that path instead of Output.
	File string
	// CRLF ends console lines with "\r\n" for terminals in raw mode.
	CRLF bool
}

var (
	once   sync.Once
	lg     *slog.Logger
	file   *os.File
	initMu sync.Mutex
)

// Init installs the process-wide logger. Only the first call has any effect.
func Init(cfg Config) error {
	var err error
	once.Do(func() {
		out := cfg.Output
		if out == nil {
			out = os.Stdout
		}
		if cfg.File != "" {
			f, openErr := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if openErr != nil {
				err = fmt.Errorf("open log file: %w", openErr)
			} else {
				file = f
				out = f
			}
		}

		initMu.Lock()
		lg = slog.New(newHandler(cfg, out))
		initMu.Unlock()
		slog.SetDefault(lg)
	})
	return err
}

func L() *slog.Logger {
	initMu.Lock()
	ready := lg != nil
	initMu.Unlock()
	if !ready {
		_ = Init(Config{Level: "debug", Format: "console"})
	}
	return lg
}

// Close releases the log file opened by Init, if any.
func Close() error {
	if file == nil {
		return nil
	}
	_ = file.Sync()
	err := file.Close()
	file = nil
	return err
}

func newHandler(cfg Config, w io.Writer) slog.Handler {
	level := parseLevel(cfg.Level)
	switch cfg.Format {
	case "json":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	case "text":
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	default:
		eol := "\n"
		if cfg.CRLF {
			eol = "\r\n"
		}
		return &consoleHandler{w: w, mu: &sync.Mutex{}, level: level, eol: eol}
	}
}

func parseLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// consoleHandler outputs human-friendly log lines:
//
//	12:00:00 INFO  Jump applied  force=4.429
type consoleHandler struct {
	w     io.Writer
	mu    *sync.Mutex
	level slog.Level
	eol   string
	attrs []slog.Attr
	group string
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Time.Format(time.TimeOnly))
	b.WriteByte(' ')
	b.WriteString(levelTag(r.Level))
	b.WriteByte(' ')
	b.WriteString(r.Message)

	for _, a := range h.attrs {
		b.WriteString(formatAttr(h.group, a))
	}
	r.Attrs(func(a slog.Attr) bool {
		b.WriteString(formatAttr(h.group, a))
		return true
	})

	eol := h.eol
	if eol == "" {
		eol = "\n"
	}
	b.WriteString(eol)

	if h.mu != nil {
		h.mu.Lock()
		defer h.mu.Unlock()
	}
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.attrs = append([]slog.Attr{}, h.attrs...)
	next.group = joinKey(h.group, name)
	return &next
}

func levelTag(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "ERROR"
	case l >= slog.LevelWarn:
		return "WARN "
	case l >= slog.LevelInfo:
		return "INFO "
	default:
		return "DEBUG"
	}
}

// formatAttr renders one attribute, flattening groups into dotted keys.
func formatAttr(group string, a slog.Attr) string {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return ""
	}
	if a.Value.Kind() == slog.KindGroup {
		prefix := group
		if a.Key != "" {
			prefix = joinKey(group, a.Key)
		}
		var b strings.Builder
		for _, member := range a.Value.Group() {
			b.WriteString(formatAttr(prefix, member))
		}
		return b.String()
	}
	return fmt.Sprintf("  %s=%s", joinKey(group, a.Key), formatValue(a.Value))
}

func formatValue(v slog.Value) string {
	if v.Kind() == slog.KindFloat64 {
		return fmt.Sprintf("%.3f", v.Float64())
	}
	return v.String()
}

func joinKey(group, key string) string {
	if group == "" {
		return key
	}
	return group + "." + key
}
