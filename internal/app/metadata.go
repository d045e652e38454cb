package app

import (
	"os"

	"github.com/testcontainers/talks-explorer/internal/config"
)

type connections struct {
	// The connection string for the response cache. The application reads it from the
	// CACHE_CONNECTION environment variable in production, or from the container in development.
	Cache string
	// The seed brokers for the browse events. The application reads them from the
	// STREAMS_CONNECTION environment variable in production, or from the container in development.
	Streams string
}

var Connections *connections = &connections{
	Cache:   os.Getenv("CACHE_CONNECTION"),
	Streams: os.Getenv("STREAMS_CONNECTION"),
}

// ApplyConnections fills the connection settings the configuration leaves empty.
func ApplyConnections(cfg *config.Config) {
	if cfg.Cache.URL == "" {
		cfg.Cache.URL = Connections.Cache
	}
	if cfg.Streams.Brokers == "" {
		cfg.Streams.Brokers = Connections.Streams
	}
}
