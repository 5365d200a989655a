package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"mintdeck/internal/config"
	"mintdeck/internal/logging"
	"mintdeck/internal/trace"
	"mintdeck/internal/web3"
)

// runtime is everything a command needs: resolved config, logger, tracer
// provider and the context boundary. Close tears it down in reverse order.
type runtime struct {
	cfg      config.Config
	logger   *zap.Logger
	exporter *trace.Exporter
	web3     *web3.Context
}

// resolveConfig applies precedence flag > env > file > default.
func resolveConfig() (config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if modeFlag != "" {
		mode, err := config.ParseMode(modeFlag)
		if err != nil {
			return config.Config{}, fmt.Errorf("--mode: %w", err)
		}
		cfg.Mode = mode
	}
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setup resolves the config and builds the runtime from it.
func setup(ctx context.Context, headless bool) (*runtime, error) {
	cfg, err := resolveConfig()
	if err != nil {
		return nil, err
	}
	return newRuntime(ctx, cfg, headless)
}

// newRuntime opens the logger, tracer and context boundary for cfg. Headless
// commands log to stderr; the TUI logs to the configured file.
func newRuntime(ctx context.Context, cfg config.Config, headless bool) (*runtime, error) {
	if headless {
		cfg.Logging.File = "-"
	}
	logger, err := logging.New(cfg.Logging, logging.Options{Mode: cfg.Mode, Verbose: verbose})
	if err != nil {
		return nil, err
	}
	exporter, err := trace.Setup(ctx, cfg.Trace)
	if err != nil {
		logger.Warn("tracing disabled", zap.Error(err))
		exporter = nil
	}
	w, err := web3.Provide(ctx, cfg, logger.Named("web3"), exporter.Tracer("mintdeck/web3"))
	if err != nil {
		_ = exporter.Shutdown(ctx)
		_ = logger.Sync()
		return nil, err
	}
	logger.Debug("runtime ready",
		zap.String("db", cfg.DatabasePath),
		zap.String("network", cfg.Network.Name),
		zap.Int64("chain_id", cfg.Network.ChainID))
	return &runtime{cfg: cfg, logger: logger, exporter: exporter, web3: w}, nil
}

// Close disconnects the wallet, closes the chain client and flushes spans and logs.
func (r *runtime) Close() {
	if err := r.web3.Close(); err != nil {
		r.logger.Warn("close web3 context", zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.exporter.Shutdown(ctx); err != nil {
		r.logger.Warn("shutdown tracing", zap.Error(err))
	}
	_ = r.logger.Sync()
}
