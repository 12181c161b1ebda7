package config

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

func (l LogLevel) String() string {
	return string(l)
}

func (l LogLevel) Level() zapcore.Level {
	switch LogLevel(strings.ToLower(strings.TrimSpace(string(l)))) {
	case LogLevelDebug, "trace":
		return zap.DebugLevel
	case LogLevelInfo, "information", "notice", "":
		return zap.InfoLevel
	case LogLevelWarn, "warning":
		return zap.WarnLevel
	case LogLevelError, "fatal", "panic":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

func (l LogLevel) Zap() zap.AtomicLevel {
	return zap.NewAtomicLevelAt(l.Level())
}
