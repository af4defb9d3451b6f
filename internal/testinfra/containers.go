// Package testinfra starts throwaway Postgres and MongoDB containers for
// tests that need the real database engines. Every helper skips the calling
// test under -short or when no Docker daemon is reachable.
package testinfra

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"moviehub/proj/internal/storage/postgres"
	"os/exec"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	PostgresImage = "postgres:16-alpine"
	MongoImage    = "mongo:7"

	startupTimeout = 90 * time.Second
)

// SkipIntegration skips the test under -short or without Docker.
func SkipIntegration(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	SkipIfNoDocker(t)
}

func SkipIfNoDocker(t *testing.T) {
	t.Helper()
	if !IsDockerAvailable() {
		t.Skip("Skipping test: Docker not available")
	}
}

// IsDockerAvailable checks if the Docker daemon is running and accessible.
func IsDockerAvailable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return exec.CommandContext(ctx, "docker", "info").Run() == nil
}

// CleanupContainer terminates the container, logging instead of failing.
func CleanupContainer(t *testing.T, container testcontainers.Container) {
	t.Helper()
	if container == nil {
		return
	}
	if err := container.Terminate(context.Background()); err != nil {
		t.Logf("Warning: failed to terminate container: %v", err)
	}
}

// start runs the container and returns the host:port of its single exposed port.
func start(t *testing.T, req testcontainers.ContainerRequest) string {
	t.Helper()
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	t.Cleanup(func() { CleanupContainer(t, container) })
	if err != nil {
		t.Fatalf("start %s container: %v", req.Image, err)
	}
	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("get container endpoint: %v", err)
	}
	return endpoint
}

// StartPostgres runs a migrated Postgres and returns its DSN.
func StartPostgres(t *testing.T) string {
	t.Helper()
	SkipIntegration(t)
	endpoint := start(t, testcontainers.ContainerRequest{
		Image:        PostgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "moviehub",
			"POSTGRES_USER":     "moviehub",
			"POSTGRES_PASSWORD": "moviehub",
		},
		// the entrypoint restarts the server once after init
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithStartupTimeout(startupTimeout),
	})

	dsn := fmt.Sprintf("postgres://moviehub:moviehub@%s/moviehub?sslmode=disable", endpoint)
	if _, err := postgres.Migrate(dsn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return dsn
}

// NewPostgres starts a migrated Postgres and returns a pool bound to it.
func NewPostgres(t *testing.T) *postgres.PostgresDB {
	t.Helper()
	dsn := StartPostgres(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	db, err := postgres.New(ctx, slog.New(slog.NewTextHandler(io.Discard, nil)), dsn, 10, time.Minute, 5*time.Second)
	if err != nil {
		t.Fatalf("connect to postgres: %v", err)
	}
	t.Cleanup(db.Close)
	return db
}

// StartMongo runs a standalone MongoDB and returns its connection URI.
func StartMongo(t *testing.T) string {
	t.Helper()
	SkipIntegration(t)
	endpoint := start(t, testcontainers.ContainerRequest{
		Image:        MongoImage,
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("27017/tcp"),
			wait.ForLog("Waiting for connections"),
		).WithStartupTimeout(startupTimeout),
	})
	return "mongodb://" + endpoint
}
