package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"student-records/internal/config"
)

// Logger is the component-tagged logging interface used across the application
type Logger interface {
	Debug(component, message string, fields map[string]interface{})
	Info(component, message string, fields map[string]interface{})
	Warning(component, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
}

type ZerologAdapter struct {
	logger zerolog.Logger
	closer io.Closer
}

func NewZerolog(writer io.Writer, level zerolog.Level) *ZerologAdapter {
	logger := zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &ZerologAdapter{logger: logger}
}

func NewConsoleLogger(level zerolog.Level) *ZerologAdapter {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.TimeOnly}
	return NewZerolog(consoleWriter, level)
}

// Nop discards everything
func Nop() *ZerologAdapter {
	return &ZerologAdapter{logger: zerolog.Nop()}
}

// New builds the application logger from configuration. When cfg.File is set
// the log is appended to that file as JSON regardless of cfg.Format.
func New(cfg config.Log) (*ZerologAdapter, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("logger: level %q: %w", cfg.Level, err)
	}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("logger: create log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logger: open %s: %w", cfg.File, err)
		}
		adapter := NewZerolog(f, level)
		adapter.closer = f
		return adapter, nil
	}

	if cfg.Format == "json" {
		return NewZerolog(os.Stdout, level), nil
	}
	return NewConsoleLogger(level), nil
}

// with tags an event with its component and fields
func with(event *zerolog.Event, component string, fields map[string]interface{}) *zerolog.Event {
	return event.Str("component", component).Fields(fields)
}

func (z *ZerologAdapter) Debug(component, message string, fields map[string]interface{}) {
	with(z.logger.Debug(), component, fields).Msg(message)
}

func (z *ZerologAdapter) Info(component, message string, fields map[string]interface{}) {
	with(z.logger.Info(), component, fields).Msg(message)
}

func (z *ZerologAdapter) Warning(component, message string, fields map[string]interface{}) {
	with(z.logger.Warn(), component, fields).Msg(message)
}

// Error logs err under the "error" key
func (z *ZerologAdapter) Error(component string, err error, fields map[string]interface{}) {
	with(z.logger.Error(), component, fields).Err(err).Msg("operation failed")
}

// Close releases the log file, if any
func (z *ZerologAdapter) Close() error {
	if z.closer == nil {
		return nil
	}
	return z.closer.Close()
}
