package hound

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// HoundLogger wraps zerolog for structured logging
type HoundLogger struct {
	logger zerolog.Logger
}

// LogLevel represents the logging level
type LogLevel int

const (
	TraceLevel LogLevel = iota
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
	DisabledLevel
)

// ParseLogLevel maps a level name such as "DEBUG" or "warning" to a LogLevel.
// Unknown names map to InfoLevel.
func ParseLogLevel(name string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "TRACE":
		return TraceLevel
	case "DEBUG":
		return DebugLevel
	case "WARN", "WARNING":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	case "OFF", "DISABLED", "NONE":
		return DisabledLevel
	default:
		return InfoLevel
	}
}

// LogConfig represents the configuration for logging
type LogConfig struct {
	Level     LogLevel
	Pretty    bool
	Output    io.Writer
	AddSource bool
	Fields    map[string]interface{}
}

// DefaultLogConfig returns a default logging configuration
func DefaultLogConfig() *LogConfig {
	return &LogConfig{
		Level:  InfoLevel,
		Pretty: true,
		Output: os.Stderr,
		Fields: make(map[string]interface{}),
	}
}

// NewHoundLogger creates a new structured logger
func NewHoundLogger(config *LogConfig) *HoundLogger {
	if config == nil {
		config = DefaultLogConfig()
	}
	out := config.Output
	if out == nil {
		out = os.Stderr
	}

	var logger zerolog.Logger
	if config.Pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.Kitchen,
		})
	} else {
		logger = zerolog.New(out)
	}

	switch config.Level {
	case TraceLevel:
		logger = logger.Level(zerolog.TraceLevel)
	case DebugLevel:
		logger = logger.Level(zerolog.DebugLevel)
	case InfoLevel:
		logger = logger.Level(zerolog.InfoLevel)
	case WarnLevel:
		logger = logger.Level(zerolog.WarnLevel)
	case ErrorLevel:
		logger = logger.Level(zerolog.ErrorLevel)
	case DisabledLevel:
		logger = logger.Level(zerolog.Disabled)
	}

	logger = logger.With().Timestamp().Logger()

	if config.AddSource {
		logger = logger.With().Caller().Logger()
	}

	if len(config.Fields) > 0 {
		logger = logger.With().Fields(config.Fields).Logger()
	}

	return &HoundLogger{
		logger: logger,
	}
}

// NopLogger returns a logger that discards everything.
func NopLogger() *HoundLogger {
	return &HoundLogger{logger: zerolog.Nop()}
}

// WithComponent adds a component field to the logger
func (l *HoundLogger) WithComponent(component string) *HoundLogger {
	return &HoundLogger{
		logger: l.logger.With().Str("component", component).Logger(),
	}
}

// WithField adds a field to the logger
func (l *HoundLogger) WithField(key string, value interface{}) *HoundLogger {
	return &HoundLogger{
		logger: l.logger.With().Interface(key, value).Logger(),
	}
}

// WithError adds an error field to the logger
func (l *HoundLogger) WithError(err error) *HoundLogger {
	return &HoundLogger{
		logger: l.logger.With().Err(err).Logger(),
	}
}

func (l *HoundLogger) Trace(msg string) {
	l.logger.Trace().Msg(msg)
}

func (l *HoundLogger) Debug(msg string) {
	l.logger.Debug().Msg(msg)
}

func (l *HoundLogger) Info(msg string) {
	l.logger.Info().Msg(msg)
}

func (l *HoundLogger) Warn(msg string) {
	l.logger.Warn().Msg(msg)
}

func (l *HoundLogger) Error(msg string) {
	l.logger.Error().Msg(msg)
}

// Fatal logs a fatal level message and exits
func (l *HoundLogger) Fatal(msg string) {
	l.logger.Fatal().Msg(msg)
}

// LogRequestEvent logs an outbound request. Only identifiers are logged,
// never authentication material.
func (l *HoundLogger) LogRequestEvent(method, path, requestID string) {
	l.logger.Debug().
		Str("event_type", "request").
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Msg("Request signed")
}

// LogResponseEvent logs a completed exchange.
func (l *HoundLogger) LogResponseEvent(path string, status int, size int, elapsed time.Duration) {
	l.logger.Debug().
		Str("event_type", "response").
		Str("path", path).
		Int("status", status).
		Int("bytes", size).
		Dur("elapsed", elapsed).
		Msg("Response received")
}

// LogConversationEvent logs a conversation state transition.
func (l *HoundLogger) LogConversationEvent(event string, active bool) {
	l.logger.Debug().
		Str("event_type", "conversation").
		Str("event", event).
		Bool("active", active).
		Msg("Conversation event")
}

// LogError logs a HoundError with structured fields
func (l *HoundLogger) LogError(err *HoundError) {
	event := l.logger.Error().
		Str("error_code", err.Code).
		Time("error_time", err.Timestamp)
	if len(err.Details) > 0 {
		event = event.Fields(err.Details)
	}
	event.Msg(err.Message)
}

// Global logger instance
var globalLogger = NewHoundLogger(DefaultLogConfig())

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() *HoundLogger {
	return globalLogger
}

// SetGlobalLogger sets the global logger instance
func SetGlobalLogger(logger *HoundLogger) {
	if logger != nil {
		globalLogger = logger
	}
}
