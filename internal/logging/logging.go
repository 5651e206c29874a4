// Package logging is the process-wide logging seam.
// It keeps a printf-style surface over one shared logger, so callers never
// carry logger handles around.
package logging

import (
	"os"
	"strconv"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarning
	LogLevelBasic
	LogLevelDebug
)

var logger = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
	ReportTimestamp: true,
})

var level = LogLevelBasic

func SetLevel(l LogLevel) {
	level = l
	switch l {
	case LogLevelError:
		logger.SetLevel(charmlog.ErrorLevel)
	case LogLevelWarning:
		logger.SetLevel(charmlog.WarnLevel)
	case LogLevelBasic:
		logger.SetLevel(charmlog.InfoLevel)
	case LogLevelDebug:
		logger.SetLevel(charmlog.DebugLevel)
	}
}

func GetLevel() LogLevel {
	return level
}

// SetFormat selects the output format. One of "text", "json", "logfmt".
func SetFormat(format string) {
	switch strings.ToLower(format) {
	case "json":
		logger.SetFormatter(charmlog.JSONFormatter)
	case "logfmt":
		logger.SetFormatter(charmlog.LogfmtFormatter)
	default:
		logger.SetFormatter(charmlog.TextFormatter)
	}
}

func FromString(s string) LogLevel {
	if numericLogLevel, err := strconv.Atoi(s); err == nil {
		return boundedLogLevel(numericLogLevel)
	}
	switch strings.ToLower(s) {
	case "error":
		return LogLevelError
	case "warn", "warning":
		return LogLevelWarning
	case "info", "basic":
		return LogLevelBasic
	case "debug":
		return LogLevelDebug
	}

	return LogLevelBasic
}

func Debugf(format string, args ...any) {
	logger.Debugf(format, args...)
}

func Warningf(format string, args ...any) {
	logger.Warnf(format, args...)
}

func Basicf(format string, args ...any) {
	logger.Infof(format, args...)
}

func Errorf(format string, args ...any) {
	logger.Errorf(format, args...)
}

func Fatalf(format string, args ...any) {
	logger.Fatalf(format, args...)
}

func boundedLogLevel(numericLevel int) LogLevel {
	if numericLevel < 0 {
		return LogLevelError
	}
	if numericLevel > 3 {
		return LogLevelDebug
	}
	return LogLevel(numericLevel)
}
