// Package logging holds the process-wide zap logger.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is usable before InitLogger and discards everything until then.
var Logger = zap.NewNop()

// InitLogger builds the global logger. "release" selects the JSON production
// encoder, anything else the colored development console.
func InitLogger(mode string) error {
	var config zap.Config

	if mode == "release" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger, err := config.Build()
	if err != nil {
		return err
	}

	Logger = logger
	return nil
}

// Sync flushes buffered log entries.
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}
