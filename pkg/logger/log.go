package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger пишет в stdout и в ./logs/app.log, уровень берётся из LOG_LEVEL.
func NewLogger(level string) *zap.Logger {
	atomicLevel := zap.NewAtomicLevelAt(zap.DebugLevel)
	if level != "" {
		if parsed, err := zapcore.ParseLevel(level); err == nil {
			atomicLevel = zap.NewAtomicLevelAt(parsed)
		}
	}

	outputs := []string{"stdout"}
	if err := os.MkdirAll("./logs", 0o755); err == nil {
		outputs = append(outputs, "./logs/app.log")
	}

	dualConfig := zap.Config{
		Encoding:         "console",
		Level:            atomicLevel,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewProductionEncoderConfig(),
	}
	dualConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	dualLogger, err := dualConfig.Build()
	if err != nil {
		panic(err)
	}

	return dualLogger
}
