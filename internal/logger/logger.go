// Package logger builds the application's zap logger from config.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pipecrest/crm-api/internal/config"
)

// NewLogger builds a zap logger. Production (or format "json") gets the
// JSON encoder; everything else gets the colored console encoder. An
// unknown level falls back to info.
func NewLogger(cfg *config.LoggingConfig, appCfg *config.AppConfig) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Format == "json" || appCfg.Environment == "production" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	zc.InitialFields = map[string]interface{}{
		"app":         appCfg.Name,
		"environment": appCfg.Environment,
	}

	log, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return log, nil
}

// WithRequest annotates the logger with per-request fields.
func WithRequest(log *zap.Logger, method, path, requestID string) *zap.Logger {
	return log.With(
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
	)
}

// WithUser annotates the logger with the authenticated user.
func WithUser(log *zap.Logger, userID, displayName string) *zap.Logger {
	return log.With(
		zap.String("user_id", userID),
		zap.String("user_name", displayName),
	)
}
