// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultMongoImage is used by NewMongoContainer.
	DefaultMongoImage = "mongo:7.0"

	// DefaultRedisImage is used by NewRedisContainer.
	DefaultRedisImage = "redis:7-alpine"
)

// SkipIfNoDocker skips the test if Docker is not available.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	if !IsDockerAvailable() {
		t.Skip("Skipping test: Docker not available")
	}
}

// IsDockerAvailable checks if the Docker daemon is reachable.
func IsDockerAvailable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return exec.CommandContext(ctx, "docker", "info").Run() == nil
}

// CleanupContainer terminates a container and logs failures.
func CleanupContainer(t *testing.T, ctx context.Context, container testcontainers.Container) {
	t.Helper()

	if container != nil {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	}
}

// Endpoint is a started container plus the address clients should dial.
type Endpoint struct {
	testcontainers.Container
	Addr string
}

// NewMongoContainer starts a single-node MongoDB. Addr is a mongodb:// URI.
func NewMongoContainer(ctx context.Context) (*Endpoint, error) {
	c, hostPort, err := start(ctx, DefaultMongoImage, "27017/tcp",
		wait.ForLog("Waiting for connections").WithStartupTimeout(90*time.Second))
	if err != nil {
		return nil, fmt.Errorf("start mongo container: %w", err)
	}
	return &Endpoint{Container: c, Addr: "mongodb://" + hostPort}, nil
}

// NewRedisContainer starts a Redis server. Addr is host:port.
func NewRedisContainer(ctx context.Context) (*Endpoint, error) {
	c, hostPort, err := start(ctx, DefaultRedisImage, "6379/tcp",
		wait.ForLog("Ready to accept connections").WithStartupTimeout(60*time.Second))
	if err != nil {
		return nil, fmt.Errorf("start redis container: %w", err)
	}
	return &Endpoint{Container: c, Addr: hostPort}, nil
}

func start(ctx context.Context, image, port string, strategy wait.Strategy) (testcontainers.Container, string, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{port},
			WaitingFor:   strategy,
		},
		Started: true,
	})
	if err != nil {
		return nil, "", err
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, "", fmt.Errorf("container host: %w", err)
	}
	mapped, err := container.MappedPort(ctx, nat.Port(port))
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, "", fmt.Errorf("mapped port: %w", err)
	}
	return container, fmt.Sprintf("%s:%s", host, mapped.Port()), nil
}
