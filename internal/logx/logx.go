// Package logx builds the structured loggers used across the viewer.
package logx

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/muesli/termenv"
)

// Config selects the log level and output styling.
type Config struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" toml:"level"`
	// Color enables ANSI level colouring when the output supports it.
	Color bool `yaml:"color" toml:"color"`
}

func DefaultConfig() Config {
	return Config{Level: "info", Color: true}
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(name string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", name, err)
	}
	return l, nil
}

// New returns a text logger writing to w.
func New(w io.Writer, cfg Config) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	out := termenv.NewOutput(w)
	if !cfg.Color {
		out = termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))
	}

	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.LevelKey {
				lv, ok := a.Value.Any().(slog.Level)
				if ok {
					a.Value = slog.StringValue(colorLevel(out, lv))
				}
			}
			return a
		},
	})
	return slog.New(h), nil
}

func colorLevel(out *termenv.Output, l slog.Level) string {
	var c termenv.Color
	switch {
	case l >= slog.LevelError:
		c = termenv.ANSIRed
	case l >= slog.LevelWarn:
		c = termenv.ANSIYellow
	case l >= slog.LevelInfo:
		c = termenv.ANSICyan
	default:
		c = termenv.ANSIBrightBlack
	}
	return out.String(l.String()).Foreground(c).String()
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
