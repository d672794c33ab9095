// Package logging wraps zerolog behind the small printf-style API the rest
// of reelorder uses, with an optional rotated file sink.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/backmassage/reelorder/internal/config"
	"github.com/backmassage/reelorder/internal/term"
)

// Rotation limits for the --log file.
const (
	maxSizeMB  = 10
	maxBackups = 5
	maxAgeDays = 30
)

const timeFormat = "2006-01-02 15:04:05"

// Logger provides leveled logging to the console and, when configured, to a
// rotated JSON log file. Safe for concurrent use.
type Logger struct {
	zl      zerolog.Logger
	rotator *lumberjack.Logger
	verbose bool
}

// NewLogger configures colors from cfg and logs to stdout.
// Call Close when done if LogFile was set.
func NewLogger(cfg *config.Config) (*Logger, error) {
	return New(cfg, os.Stdout)
}

// New is NewLogger with an explicit console writer.
func New(cfg *config.Config, out io.Writer) (*Logger, error) {
	color := term.Configure(cfg.ColorMode)

	var console io.Writer = out
	if cfg.LogFormat != config.LogJSON {
		console = zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    !color,
			TimeFormat: timeFormat,
		}
	}

	output := console
	var rotator *lumberjack.Logger
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		rotator = &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			LocalTime:  true,
		}
		output = io.MultiWriter(console, rotator)
	}

	level := zerolog.InfoLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}

	zl := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return &Logger{zl: zl, rotator: rotator, verbose: cfg.Verbose}, nil
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	if l.rotator != nil {
		return l.rotator.Close()
	}
	return nil
}

// WithRun returns a child logger that tags every line with the run id.
// The file sink is shared with the parent; only the parent should be closed.
func (l *Logger) WithRun(id string) *Logger {
	return &Logger{
		zl:      l.zl.With().Str("run", id).Logger(),
		verbose: l.verbose,
	}
}

// Verbose reports whether debug lines are emitted.
func (l *Logger) Verbose() bool { return l.verbose }

// Info logs at INFO level.
func (l *Logger) Info(format string, args ...any) {
	l.zl.Info().Msgf(format, args...)
}

// Success logs a completed step at INFO level, marked ok=true.
func (l *Logger) Success(format string, args ...any) {
	l.zl.Info().Bool("ok", true).Msgf(format, args...)
}

// Warn logs at WARN level.
func (l *Logger) Warn(format string, args ...any) {
	l.zl.Warn().Msgf(format, args...)
}

// Error logs at ERROR level.
func (l *Logger) Error(format string, args ...any) {
	l.zl.Error().Msgf(format, args...)
}

// Debug logs at DEBUG level; dropped unless verbose.
func (l *Logger) Debug(format string, args ...any) {
	l.zl.Debug().Msgf(format, args...)
}

// FolderError logs a folder-scoped failure with the folder as a field.
func (l *Logger) FolderError(folder string, err error) {
	l.zl.Error().Err(err).Str("folder", folder).Msg("folder failed")
}

// Update reports pipeline progress. Intermediate steps are debug lines; the
// final step is logged at INFO.
func (l *Logger) Update(message string, current, total int) {
	ev := l.zl.Debug()
	if current >= total {
		ev = l.zl.Info()
	}
	ev.Int("current", current).Int("total", total).Msg(message)
}
