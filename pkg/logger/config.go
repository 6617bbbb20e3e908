package logger

import (
	"log/slog"
	"strings"
)

// Config holds logger configuration
type Config struct {
	Env     string `env:"APP_ENV" envDefault:"development"`
	Service string `env:"SERVICE_NAME" envDefault:"sessiond"`
	// Level overrides the environment default: debug, info, warn or error
	Level string `env:"LOG_LEVEL" envDefault:""`
}

// NewFromConfig creates a logger from the provided Config.
// Extra options are applied after the config-derived ones.
func NewFromConfig(cfg Config, opts ...Option) *slog.Logger {
	configOpts := []Option{WithEnvironment(cfg.Env, cfg.Service)}

	if lvl, ok := parseLevel(cfg.Level); ok {
		configOpts = append(configOpts, WithLevel(lvl))
	}

	configOpts = append(configOpts, opts...)
	return New(configOpts...)
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return 0, false
	}
}
