package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/testcontainers/talks-explorer/internal/app"
	"github.com/testcontainers/talks-explorer/internal/cache"
	"github.com/testcontainers/talks-explorer/internal/config"
	"github.com/testcontainers/talks-explorer/internal/logging"
	"github.com/testcontainers/talks-explorer/internal/talks"
)

// loadConfig reads the configuration file and the environment, fills in the
// connections of the development containers and validates the result.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}

	app.ApplyConnections(&cfg)

	if verbose {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	return logging.New(w, logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
}

// newClient creates the talks API client, backed by the response cache when one
// is configured. The returned function releases the cache.
func newClient(ctx context.Context, cfg config.Config, logger *slog.Logger) (*talks.Client, func(), error) {
	opts := []talks.Option{
		talks.WithTimeout(cfg.API.Timeout),
		talks.WithLogger(logger),
	}

	release := func() {}
	if cfg.Cache.URL != "" {
		rc, err := cache.NewRedis(ctx, cfg.Cache.URL, cfg.Cache.TTL, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to the response cache: %w", err)
		}
		opts = append(opts, talks.WithCache(rc))
		release = func() {
			if err := rc.Close(); err != nil {
				logger.Warn("closing the response cache", "error", err)
			}
		}
	}

	return talks.NewClient(cfg.API.BaseURL, opts...), release, nil
}
