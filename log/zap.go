package log

import (
	"github.com/beneficios/backoffice/meta"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Level string `mapstructure:"level"`
}

// NewZapLogger builds the shared logger plus the atomic level handle that
// backs it, so the level can be changed on a running process when the config
// file is rewritten.
func NewZapLogger(cfg Config) (*zap.Logger, zap.AtomicLevel, error) {
	level := zap.NewAtomicLevelAt(ParseLevel(cfg.Level))

	zapConfig := zap.NewProductionConfig()
	if meta.IsDevelopment() {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zapConfig.Level = level

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, level, err
	}
	return logger.WithOptions(zap.WrapCore(RedactCredentialsCore)), level, nil
}

// ParseLevel maps a config level name to a zap level. Unknown or empty names
// fall back to debug in development and info in production.
func ParseLevel(name string) zapcore.Level {
	switch name {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	}
	if meta.IsDevelopment() {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

func NewEventLogger(log *zap.Logger) fxevent.Logger {
	return &fxevent.ZapLogger{Logger: log}
}
