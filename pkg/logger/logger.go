package logger

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	envLocal = "local"
	envDev   = "dev"
)

var global = zap.NewNop()

// SetupLogger builds the process-wide logger: console output for local/dev,
// production JSON otherwise.
func SetupLogger(env string) *zap.SugaredLogger {
	var (
		l   *zap.Logger
		err error
	)

	switch env {
	case envLocal, envDev:
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		l, err = cfg.Build()
	default:
		l, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("cannot build logger: %s", err)
	}

	global = l

	return l.Sugar()
}

// Logger returns the process-wide logger for middleware that needs the
// unsugared form.
func Logger() *zap.Logger {
	return global
}
