//go:build dev || e2e
// +build dev e2e

package app

import (
	"context"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"
)

// init will be used to start up the containers for development mode. It will use
// testcontainers-go to start up the following containers:
// - Redis: cache for the talks API responses
// - Redpanda: message queue for the browse events
// All the containers will contribute their connection strings to the Connections struct.
// The talks API itself is not started: point api.base_url to a running instance.
// Please read this blog post for more information: https://www.atomicjar.com/2023/08/local-development-of-go-applications-with-testcontainers/
func init() {
	startupDependenciesFns := []func() (testcontainers.Container, error){
		startResponseCache,
		startStreamingQueue,
	}

	for _, fn := range startupDependenciesFns {
		_, err := fn()
		if err != nil {
			panic(err)
		}
	}
}

func startResponseCache() (testcontainers.Container, error) {
	ctx := context.Background()

	c, err := redis.RunContainer(ctx, testcontainers.WithImage("redis:6-alpine"))
	if err != nil {
		return nil, err
	}

	cacheConn, err := c.ConnectionString(ctx)
	if err != nil {
		return nil, err
	}

	Connections.Cache = cacheConn
	return c, nil
}

func startStreamingQueue() (testcontainers.Container, error) {
	ctx := context.Background()

	c, err := redpanda.RunContainer(
		ctx,
		testcontainers.WithImage("docker.redpanda.com/redpandadata/redpanda:v23.3.7"),
		redpanda.WithAutoCreateTopics(),
	)
	if err != nil {
		return nil, err
	}

	seedBroker, err := c.KafkaSeedBroker(ctx)
	if err != nil {
		return nil, err
	}

	Connections.Streams = seedBroker
	return c, nil
}
