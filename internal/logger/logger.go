package logger

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var globalLogger = zerolog.New(os.Stdout).With().Timestamp().Logger()

var once sync.Once

// InitLogging configures the global zerolog logger. Only the first call has
// an effect.
func InitLogging(logFilePath, level string) {
	once.Do(func() {
		var writers []io.Writer
		writers = append(writers, os.Stdout)

		if logFilePath != "" {
			file, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0664)
			if err != nil {
				// We can't use the logger yet, so just print to stderr
				os.Stderr.WriteString("Failed to open log file: " + err.Error() + "\n")
			} else {
				writers = append(writers, file)
			}
		}

		SetLogger(NewLogger(zerolog.MultiLevelWriter(writers...), level))
	})
}

// NewLogger builds a timestamped logger writing to w at the given level.
// Unknown levels fall back to info.
func NewLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(lvl)
}

// SetLogger replaces the global logger.
func SetLogger(l zerolog.Logger) {
	globalLogger = l
	log.Logger = l
}

// WithLogger returns a new context containing the logger with additional fields.
func WithLogger(ctx context.Context, fields map[string]interface{}) context.Context {
	l := getLogger(ctx).With().Fields(fields).Logger()
	return l.WithContext(ctx)
}

// FromContext returns the context logger, falling back to the global logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return getLogger(ctx)
}

func getLogger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	// zerolog.Ctx returns a disabled logger if none is in context
	if l.GetLevel() == zerolog.Disabled {
		return &globalLogger
	}
	return l
}

// DebugLog logs a debug level message.
func DebugLog(ctx context.Context, msg string, args ...interface{}) {
	getLogger(ctx).Debug().Msgf(msg, args...)
}

// InfoLog logs an info level message.
func InfoLog(ctx context.Context, msg string, args ...interface{}) {
	getLogger(ctx).Info().Msgf(msg, args...)
}

// WarnLog logs a warning level message.
func WarnLog(ctx context.Context, msg string, args ...interface{}) {
	getLogger(ctx).Warn().Msgf(msg, args...)
}

// ErrorLog logs an error level message. A leading error argument is also
// attached as the structured "error" field.
func ErrorLog(ctx context.Context, msg string, args ...interface{}) {
	ev := getLogger(ctx).Error()
	if len(args) > 0 {
		if err, ok := args[0].(error); ok {
			ev = ev.Err(err)
		}
	}
	ev.Msgf(msg, args...)
}
