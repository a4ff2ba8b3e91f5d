// Package logging builds the zerolog loggers shared by both hosts.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Config contains logger settings.
type Config struct {
	Level   string
	Output  io.Writer
	NoColor bool
	Session string
}

// New returns a console logger. An empty or unknown level means info.
func New(config Config) zerolog.Logger {
	output := config.Output
	if output == nil {
		output = os.Stderr
	}

	writer := zerolog.ConsoleWriter{
		Out:        output,
		TimeFormat: time.TimeOnly,
		NoColor:    config.NoColor || !isTerminal(output),
	}

	logger := zerolog.New(writer).
		Level(ParseLevel(config.Level)).
		With().
		Timestamp().
		Logger()
	if config.Session != "" {
		logger = logger.With().Str("session", config.Session).Logger()
	}
	return logger
}

// ParseLevel maps a level name to a zerolog level.
func ParseLevel(value string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

func isTerminal(output io.Writer) bool {
	file, ok := output.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

// OpenFile opens an append-only log file for hosts that own the terminal.
// An empty path discards output.
func OpenFile(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{io.Discard}, nil
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
