// AngelaMos | 2026
// logging.go

package core

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ploteasy/ploteasy-api/internal/config"
)

type loggerKey struct{}

func NewLogger(cfg config.LogConfig, environment string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if environment != "production" && cfg.Format != "json" {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

func ContextWithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// LoggerFromContext returns the request scoped logger or the global one.
func LoggerFromContext(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && l != nil {
			return l
		}
	}
	return zap.L()
}

// MaskEmail keeps the first three characters of the local part.
// john.doe@example.com -> joh***@example.com
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		if email == "" {
			return ""
		}
		return "***"
	}
	if len(local) > 3 {
		local = local[:3]
	}
	return local + "***@" + domain
}

// MaskIP drops the host half of an address.
func MaskIP(ip string) string {
	if ip == "" {
		return ""
	}

	if parts := strings.Split(ip, "."); len(parts) == 4 {
		return parts[0] + "." + parts[1] + ".*.*"
	}

	if parts := strings.Split(ip, ":"); len(parts) >= 4 {
		return strings.Join(parts[:4], ":") + ":*:*:*:*"
	}

	return "***"
}
