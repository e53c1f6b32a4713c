// Package logger provides leveled, per-component loggers for the server and client
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel is the minimum severity a logger emits
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// String returns the flag spelling of the level
func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return fmt.Sprintf("LogLevel(%d)", int(l))
	}
}

// ParseLevel maps "DEBUG", "INFO", "WARN" and "ERROR" (any case) to a LogLevel.
// Unknown names fall back to INFO and report false.
func ParseLevel(name string) (LogLevel, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return DEBUG, true
	case "INFO":
		return INFO, true
	case "WARN", "WARNING":
		return WARN, true
	case "ERROR":
		return ERROR, true
	default:
		return INFO, false
	}
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case DEBUG:
		return zapcore.DebugLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

var globalLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// SetGlobalLogLevel changes the level of every logger created by this package
func SetGlobalLogLevel(level LogLevel) {
	globalLevel.SetLevel(level.zapLevel())
}

// Logger is a named component logger
type Logger struct {
	name    string
	console zapcore.Core

	mu    sync.RWMutex
	sugar *zap.SugaredLogger
	file  *os.File
}

var (
	Server    = New("server", os.Stderr)
	Client    = New("client", os.Stderr)
	Spectator = New("spectator", os.Stderr)
)

func components() []*Logger {
	return []*Logger{Server, Client, Spectator}
}

// New creates a logger named name that writes console-formatted lines to w
func New(name string, w io.Writer) *Logger {
	console := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig(true)),
		zapcore.Lock(zapcore.AddSync(w)),
		globalLevel,
	)
	l := &Logger{name: name, console: console}
	l.sugar = zap.New(console).Named(name).Sugar()
	return l
}

func encoderConfig(colored bool) zapcore.EncoderConfig {
	cfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "component",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.TimeEncoderOfLayout("15:04:05.000"),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
	if colored {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncodeName = coloredName
	}
	return cfg
}

var nameColor = color.New(color.FgCyan, color.Bold)

func coloredName(name string, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(nameColor.Sprintf("[%s]", strings.ToUpper(name)))
}

// SetFile additionally writes JSON-encoded entries to the file at path
func (l *Logger) SetFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig(false)),
		zapcore.Lock(f),
		globalLevel,
	)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.file.Close()
	}
	l.file = f
	l.sugar = zap.New(zapcore.NewTee(l.console, fileCore)).Named(l.name).Sugar()
	return nil
}

// InitializeFileLogging points every component logger at dir/<component>.log
func InitializeFileLogging(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	for _, l := range components() {
		if err := l.SetFile(filepath.Join(dir, l.name+".log")); err != nil {
			return err
		}
	}
	return nil
}

// Sync flushes every component logger
func Sync() {
	for _, l := range components() {
		l.Sync()
	}
}

// Sync flushes buffered entries
func (l *Logger) Sync() {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_ = l.sugar.Sync()
}

func (l *Logger) get() *zap.SugaredLogger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sugar
}

func (l *Logger) Debug(format string, args ...interface{}) { l.get().Debugf(format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.get().Infof(format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.get().Warnf(format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.get().Errorf(format, args...) }

// Fatal logs at error severity and exits the process with status 1
func (l *Logger) Fatal(format string, args ...interface{}) { l.get().Fatalf(format, args...) }
