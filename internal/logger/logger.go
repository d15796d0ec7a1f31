package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how much is logged.
type Options struct {
	Level   string // debug | info | warn | error
	Debug   bool   // DEBUG=true shortcut, forces debug level
	LogFile string // optional rotated log file, written in addition to stdout
}

// Init builds the process logger and installs it as the slog default.
func Init(opts Options) *slog.Logger {
	l := New(os.Stdout, opts)
	slog.SetDefault(l)
	return l
}

// New creates a text logger writing to w and, if configured, to a rotated file.
func New(w io.Writer, opts Options) *slog.Logger {
	level := ParseLevel(opts.Level)
	if opts.Debug {
		level = slog.LevelDebug
	}

	if opts.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(opts.LogFile), 0o755); err == nil {
			rotator := &lumberjack.Logger{
				Filename:   opts.LogFile,
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			}
			w = io.MultiWriter(w, rotator)
		}
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// ParseLevel maps a LOG_LEVEL value to a slog level; unknown values mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
