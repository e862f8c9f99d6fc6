package config_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"wanderplan/pkg/config"
	"wanderplan/pkg/logger"
)

var Module = fx.Provide(provideConfig, provideLogger)

func provideConfig() (config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) (*zap.Logger, error) {
	return logger.Init(cfg.LogLevel, cfg.LogFormat)
}
