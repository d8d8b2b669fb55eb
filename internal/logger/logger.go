package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a zap backed logger with the given configuration
func New(cfg Config) (*Logger, error) {
	level := zap.NewAtomicLevelAt(zapLevels[ParseLevel(cfg.Level)])

	writer, err := createWriter(cfg.Output)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(createEncoder(cfg), writer, level)
	zl := zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel))

	return &Logger{level: level, zl: zl}, nil
}

// Wrap adapts an existing zap logger. The level is fixed by the core of zl.
func Wrap(zl *zap.Logger) *Logger {
	return &Logger{level: zap.NewAtomicLevelAt(zapcore.DebugLevel), zl: zl}
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return Wrap(zap.NewNop())
}

// ParseLevel converts a level name into a LogLevel, defaulting to info
func ParseLevel(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func createEncoder(cfg Config) zapcore.Encoder {
	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = DefaultConfig().TimeFormat
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "component",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout(timeFormat),
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}

	if strings.EqualFold(cfg.Format, "json") {
		encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		return zapcore.NewJSONEncoder(encoderConfig)
	}
	return zapcore.NewConsoleEncoder(encoderConfig)
}

func createWriter(output string) (zapcore.WriteSyncer, error) {
	switch strings.ToLower(output) {
	case "", "stdout":
		return zapcore.Lock(os.Stdout), nil
	case "stderr":
		return zapcore.Lock(os.Stderr), nil
	default:
		file, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log output %s: %w", output, err)
		}
		return zapcore.AddSync(file), nil
	}
}

// SetLogLevel sets the minimum log level
func (l *Logger) SetLogLevel(level LogLevel) {
	l.level.SetLevel(zapLevels[level])
}

// Zap exposes the underlying logger for libraries that take one
func (l *Logger) Zap() *zap.Logger {
	return l.zl
}

// Sync flushes buffered entries
func (l *Logger) Sync() error {
	return l.zl.Sync()
}

func (l *Logger) log(level zapcore.Level, component, message string, args ...interface{}) {
	ce := l.named(component).Check(level, fmt.Sprintf(message, args...))
	if ce != nil {
		ce.Write()
	}
}

func (l *Logger) named(component string) *zap.Logger {
	if component == "" {
		return l.zl
	}
	return l.zl.Named(component)
}

// Debug logs a debug message
func (l *Logger) Debug(component, message string, args ...interface{}) {
	l.log(zapcore.DebugLevel, component, message, args...)
}

// Info logs an info message
func (l *Logger) Info(component, message string, args ...interface{}) {
	l.log(zapcore.InfoLevel, component, message, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(component, message string, args ...interface{}) {
	l.log(zapcore.WarnLevel, component, message, args...)
}

// Error logs an error message
func (l *Logger) Error(component, message string, args ...interface{}) {
	l.log(zapcore.ErrorLevel, component, message, args...)
}

// Fatal logs an error message, flushes and exits
func (l *Logger) Fatal(component, message string, args ...interface{}) {
	l.log(zapcore.ErrorLevel, component, message, args...)
	_ = l.zl.Sync()
	os.Exit(1)
}
