package utils

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	applicationLoggerNameConstant        = "reposeed"
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
)

// LogLevel is the common.log_level setting.
type LogLevel string

// Supported log levels.
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogFormat is the common.log_format setting.
type LogFormat string

// Supported log formats. Console pairs with the human-readable command event logger.
const (
	LogFormatStructured LogFormat = "structured"
	LogFormatConsole    LogFormat = "console"
)

var zapLevels = map[LogLevel]zapcore.Level{
	LogLevelDebug: zapcore.DebugLevel,
	LogLevelInfo:  zapcore.InfoLevel,
	LogLevelWarn:  zapcore.WarnLevel,
	LogLevelError: zapcore.ErrorLevel,
}

// LoggerFactoryOption customizes a LoggerFactory.
type LoggerFactoryOption func(*LoggerFactory)

// WithLogOutput redirects log output, which defaults to standard error.
func WithLogOutput(output io.Writer) LoggerFactoryOption {
	return func(factory *LoggerFactory) {
		if output != nil {
			factory.output = zapcore.AddSync(output)
		}
	}
}

// LoggerFactory builds the named "reposeed" zap logger.
type LoggerFactory struct {
	output zapcore.WriteSyncer
}

// NewLoggerFactory constructs a logger factory writing to standard error unless redirected.
func NewLoggerFactory(options ...LoggerFactoryOption) *LoggerFactory {
	factory := &LoggerFactory{output: zapcore.Lock(os.Stderr)}
	for _, option := range options {
		option(factory)
	}
	return factory
}

// CreateLogger produces a logger for the requested level and format. Values are matched
// case-insensitively so REPOSEED_COMMON_LOG_LEVEL=DEBUG works.
func (factory *LoggerFactory) CreateLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	logLevel := LogLevel(normalizeLoggerSetting(string(requestedLogLevel)))
	zapLevel, levelSupported := zapLevels[logLevel]
	if !levelSupported {
		return nil, fmt.Errorf(unsupportedLogLevelTemplateConstant, logLevel)
	}

	encoder, encoderError := newLogEncoder(LogFormat(normalizeLoggerSetting(string(requestedLogFormat))))
	if encoderError != nil {
		return nil, encoderError
	}

	core := zapcore.NewCore(encoder, factory.output, zap.NewAtomicLevelAt(zapLevel))
	options := []zap.Option{zap.ErrorOutput(factory.output)}
	if zapLevel == zapcore.DebugLevel {
		options = append(options, zap.AddCaller())
	}
	return zap.New(core, options...).Named(applicationLoggerNameConstant), nil
}

func newLogEncoder(logFormat LogFormat) (zapcore.Encoder, error) {
	switch logFormat {
	case LogFormatStructured:
		return zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), nil
	case LogFormatConsole:
		encoderConfiguration := zap.NewProductionEncoderConfig()
		encoderConfiguration.EncodeLevel = zapcore.CapitalLevelEncoder
		encoderConfiguration.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewConsoleEncoder(encoderConfiguration), nil
	default:
		return nil, fmt.Errorf(unsupportedLogFormatTemplateConstant, logFormat)
	}
}

func normalizeLoggerSetting(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
