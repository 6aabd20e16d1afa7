package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// zeroLogger adapts a zerolog.Logger to the Logger interface.
type zeroLogger struct {
	zl zerolog.Logger
}

// NewZerolog wraps w in a JSON zerolog logger at the given level.
// component is attached to every line so TUI and API output can be told apart.
func NewZerolog(w io.Writer, level, component string) Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	ctx := zerolog.New(w).Level(lvl).With().Timestamp()
	if component != "" {
		ctx = ctx.Str("component", component)
	}
	return &zeroLogger{zl: ctx.Logger()}
}

// NewConsole returns a human-readable zerolog logger for --verbose and the
// demo backend.
func NewConsole(w io.Writer, level, component string) Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
	}
	return NewZerolog(output, level, component)
}

// NewFileLogger opens (or creates) path and logs JSON lines to it.
// The bubbletea dashboard owns the terminal, so this is the only place
// logs can go while it runs. The returned closer releases the file.
func NewFileLogger(path, level, component string) (Logger, io.Closer, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return NewZerolog(f, level, component), f, nil
}

func (l *zeroLogger) Debug(format string, args ...interface{}) {
	l.zl.Debug().Msgf(format, args...)
}

func (l *zeroLogger) Info(format string, args ...interface{}) {
	l.zl.Info().Msgf(format, args...)
}

func (l *zeroLogger) Warn(format string, args ...interface{}) {
	l.zl.Warn().Msgf(format, args...)
}

func (l *zeroLogger) Error(format string, args ...interface{}) {
	l.zl.Error().Msgf(format, args...)
}
