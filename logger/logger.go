package logger

import (
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global atomic.Pointer[zap.Logger]

// Initialize builds the process logger. Until it is called Logger and Sugar return a no-op logger.
func Initialize(level zap.AtomicLevel) error {
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	log, err := cfg.Build()
	if err != nil {
		return err
	}
	Set(log)
	return nil
}

// Set replaces the process logger.
func Set(log *zap.Logger) {
	global.Store(log)
}

func Logger() *zap.Logger {
	if log := global.Load(); log != nil {
		return log
	}
	return zap.NewNop()
}

func Sugar() *zap.SugaredLogger {
	return Logger().Sugar()
}

func Sync() {
	_ = Logger().Sync()
}
