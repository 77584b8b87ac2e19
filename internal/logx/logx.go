// Package logx sets up the structured logger shared by the commands.
package logx

import (
	"io"
	"log/slog"
	"os"
)

// New returns a text logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Setup installs a stderr logger as the slog default and returns it.
// verbose forces debug level.
func Setup(level slog.Level, verbose bool) *slog.Logger {
	if verbose {
		level = slog.LevelDebug
	}
	l := New(os.Stderr, level)
	slog.SetDefault(l)
	return l
}
