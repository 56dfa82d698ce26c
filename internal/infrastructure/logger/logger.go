package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"parkbooking/internal/config"
)

const serviceName = "parkbooking"

// New builds a JSON production logger. Unknown levels fall back to info and
// are reported once the logger exists.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	lvl, parseErr := zapcore.ParseLevel(cfg.Level)
	if parseErr != nil {
		lvl = zapcore.InfoLevel
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.EncoderConfig.TimeKey = "timestamp"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.InitialFields = map[string]interface{}{"service": serviceName}

	log, err := zc.Build()
	if err != nil {
		return nil, err
	}
	if parseErr != nil {
		log.Warn("unknown log level, using info", zap.String("level", cfg.Level))
	}
	return log, nil
}
