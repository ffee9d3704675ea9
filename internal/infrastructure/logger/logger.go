package logger

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

const colorReset = "\033[0m"

// levelColors maps the level token written by slog.TextHandler to its ANSI colour.
var levelColors = map[string]string{
	"level=DEBUG": "\033[36m",
	"level=INFO":  "\033[32m",
	"level=WARN":  "\033[33m",
	"level=ERROR": "\033[31m",
}

// colorWriter colours the level token of each text record before passing it on.
type colorWriter struct {
	w io.Writer
}

func (cw colorWriter) Write(p []byte) (int, error) {
	out := p
	for token, color := range levelColors {
		if bytes.Contains(out, []byte(token)) {
			out = bytes.Replace(out, []byte(token), []byte(color+token+colorReset), 1)
			break
		}
	}
	if _, err := cw.w.Write(out); err != nil {
		return 0, err
	}
	return len(p), nil
}

// New builds a structured slog logger writing to stdout.
// See NewWithWriter.
func New(appName, level, environment string) *slog.Logger {
	return NewWithWriter(os.Stdout, appName, level, environment)
}

// NewWithWriter builds a structured slog logger honoring the configured level and environment.
// Development environments (local, dev, development) get text output, coloured when w
// is a terminal. Every other environment gets JSON output.
func NewWithWriter(w io.Writer, appName, level, environment string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(level),
		AddSource: true,
	}

	var handler slog.Handler
	if isDevelopment(environment) {
		if isTerminal(w) {
			w = colorWriter{w: w}
		}
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With("app", appName)
}

// ParseLevel maps a level name to a slog level; unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func isDevelopment(environment string) bool {
	switch strings.ToLower(strings.TrimSpace(environment)) {
	case "local", "dev", "development":
		return true
	}
	return false
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
