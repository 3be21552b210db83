package app

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the component logger every package accepts.
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type NoopLogger struct{}

func (NoopLogger) Infof(component, format string, args ...interface{})  {}
func (NoopLogger) Errorf(component, format string, args ...interface{}) {}

// ZeroLogger writes component log lines through zerolog.
type ZeroLogger struct{ log zerolog.Logger }

// NewZeroLogger logs to w: human-readable in development, JSON otherwise.
func NewZeroLogger(w io.Writer, development bool) ZeroLogger {
	if development {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return ZeroLogger{log: zerolog.New(w).With().Timestamp().Logger()}
}

func WrapZerolog(log zerolog.Logger) ZeroLogger { return ZeroLogger{log: log} }

// Zerolog exposes the underlying logger for packages that log structured fields.
func (l ZeroLogger) Zerolog() zerolog.Logger { return l.log }

func (l ZeroLogger) Infof(component string, format string, args ...interface{}) {
	l.log.Info().Str("component", component).Msg(fmt.Sprintf(format, args...))
}

func (l ZeroLogger) Errorf(component string, format string, args ...interface{}) {
	l.log.Error().Str("component", component).Msg(fmt.Sprintf(format, args...))
}
