package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New costruisce lo zap.Logger dell'applicazione a partire da livello e formato.
func New(livello, formato string) *zap.Logger {
	level := zapcore.InfoLevel
	switch livello {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	var cfg zap.Config
	if formato == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	l, _ := cfg.Build()
	return l
}
