package main

import (
	"go.uber.org/zap"

	"heic2jpg/contracts"
)

func newLogger(flags contracts.InputFlags) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(flags.LogLevel)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewDevelopmentConfig()
	if flags.LogFormat == "json" {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = level
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg.Build()
}
