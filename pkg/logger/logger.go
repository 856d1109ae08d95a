package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/phuslu/log"
)

// Leveled logger used by the blog service.
// - structured JSON lines via phuslu/log
// - provides Debug/Info/Warn/Error/Fatal variants and Init(level)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var (
	mu     sync.RWMutex
	logger = &log.Logger{
		Level:      log.InfoLevel,
		TimeFormat: "2006-01-02T15:04:05Z07:00",
		Writer:     &log.IOWriter{Writer: os.Stdout},
	}
	level = LevelInfo
)

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Call early during startup. Default level is Info.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		level = LevelDebug
	case "warn", "warning":
		level = LevelWarn
	case "error":
		level = LevelError
	case "fatal":
		level = LevelFatal
	default:
		level = LevelInfo
	}
	logger.Level = toBackend(level)
}

func toBackend(l Level) log.Level {
	switch l {
	case LevelDebug:
		return log.DebugLevel
	case LevelWarn:
		return log.WarnLevel
	case LevelError:
		return log.ErrorLevel
	case LevelFatal:
		return log.FatalLevel
	}
	return log.InfoLevel
}

func current() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debugf(format string, v ...interface{}) { current().Debug().Msgf(format, v...) }
func Infof(format string, v ...interface{})  { current().Info().Msgf(format, v...) }
func Warnf(format string, v ...interface{})  { current().Warn().Msgf(format, v...) }
func Errorf(format string, v ...interface{}) { current().Error().Msgf(format, v...) }

func Fatalf(format string, v ...interface{}) {
	current().Log().Str("level", "fatal").Msgf(format, v...)
	os.Exit(1)
}

// Println kept for brief messages (maps to Info)
func Println(v ...interface{}) {
	current().Info().Msg(strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

// Debug/Info/Warn/Error helpers that accept a single string
func Debug(v string) { Debugf("%s", v) }
func Info(v string)  { Infof("%s", v) }
func Warn(v string)  { Warnf("%s", v) }
func Error(v string) { Errorf("%s", v) }

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	switch level {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	}
	return "info"
}
