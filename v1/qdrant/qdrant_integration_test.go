package qdrant

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	qdrant "github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/Aleph-Alpha/vecdb/v1/logger"
	"github.com/Aleph-Alpha/vecdb/v1/vectorstore"
)

// qdrantContainer represents a Qdrant container for testing
type qdrantContainer struct {
	testcontainers.Container
	Host string
	Port string
}

// setupQdrantContainer sets up a Qdrant container for testing
func setupQdrantContainer(ctx context.Context) (*qdrantContainer, error) {
	// Get a random free port
	port, err := getFreePort()
	if err != nil {
		return nil, fmt.Errorf("could not get free port: %w", err)
	}

	portStr := fmt.Sprintf("%d", port)
	portBindings := nat.PortMap{
		"6334/tcp": []nat.PortBinding{{HostPort: portStr}},
	}

	req := testcontainers.ContainerRequest{
		Image: "qdrant/qdrant:v1.11.0",
		Env: map[string]string{
			"QDRANT__SERVICE__GRPC_PORT": "6334",
		},
		ExposedPorts: []string{"6334/tcp"},
		HostConfigModifier: func(cfg *container.HostConfig) {
			cfg.PortBindings = portBindings
		},
		WaitingFor: wait.ForListeningPort("6334/tcp").WithStartupTimeout(60 * time.Second),
	}

	instance, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start qdrant container: %w", err)
	}

	host, err := instance.Host(ctx)
	if err != nil {
		_ = instance.Terminate(ctx)
		return nil, fmt.Errorf("failed to get host: %w", err)
	}

	mappedPort, err := instance.MappedPort(ctx, "6334")
	if err != nil {
		_ = instance.Terminate(ctx)
		return nil, fmt.Errorf("failed to get mapped port: %w", err)
	}
	portStr = mappedPort.Port()

	if err := waitForQdrantReady(host, portStr, 30*time.Second); err != nil {
		_ = instance.Terminate(ctx)
		return nil, fmt.Errorf("qdrant container not ready: %w", err)
	}

	return &qdrantContainer{
		Container: instance,
		Host:      host,
		Port:      portStr,
	}, nil
}

// getFreePort gets a free port from the OS
func getFreePort() (int, error) {
	addr, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}
	defer func(addr net.Listener) {
		if err := addr.Close(); err != nil {
			fmt.Printf("Failed to close listener: %v", err)
		}
	}(addr)

	return addr.Addr().(*net.TCPAddr).Port, nil
}

// waitForQdrantReady attempts to connect to Qdrant until it's ready or times out
func waitForQdrantReady(host, port string, timeout time.Duration) error {
	startTime := time.Now()
	for {
		if time.Since(startTime) > timeout {
			return fmt.Errorf("timed out waiting for Qdrant to be ready after %s", timeout)
		}

		conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, port), 2*time.Second)
		if err == nil {
			_ = conn.Close()
			// Additional wait to ensure the service is fully ready
			time.Sleep(2 * time.Second)
			return nil
		}

		time.Sleep(500 * time.Millisecond)
	}
}

// createCollection provisions the collection the store operates on. Collection
// management stays outside the store, so the test uses the raw SDK client.
func createCollection(ctx context.Context, host string, port int, name string) error {
	c, err := qdrant.NewClient(&qdrant.Config{
		Host:                   host,
		Port:                   port,
		SkipCompatibilityCheck: true,
	})
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	return c.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     4,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

// TestQdrantStoreWithFXModule exercises the full round trip against a real
// Qdrant instance using the existing FX module.
func TestQdrantStoreWithFXModule(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	containerInstance, err := setupQdrantContainer(ctx)
	require.NoError(t, err)
	defer func() {
		if err := containerInstance.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}()

	t.Logf("Using Qdrant on %s:%s", containerInstance.Host, containerInstance.Port)

	portNum, err := strconv.Atoi(containerInstance.Port)
	require.NoError(t, err)

	require.NoError(t, createCollection(ctx, containerInstance.Host, portNum, "documents"))

	var store *Store
	app := fxtest.New(t,
		logger.FXModule,
		fx.Provide(
			func() logger.Config {
				return logger.Config{Level: logger.Debug, ServiceName: "qdrant-test"}
			},
			func() *Config {
				return DefaultConfig().
					WithEndpoint(containerInstance.Host, portNum).
					WithCollectionName("documents").
					WithAdditionalFields("fileName").
					WithTopK(5)
			},
		),
		FXModule,
		fx.Populate(&store),
	)

	require.NoError(t, app.Start(ctx))
	require.NotNil(t, store)

	entries := []vectorstore.Entry{
		{
			ID:        "1",
			Embedding: []float32{0.1, 0.2, 0.3, 0.4},
			Chunk:     vectorstore.Chunk{Type: "text", Content: "first chunk"},
			Metadata:  map[string]any{"fileName": "a.txt"},
		},
		{
			ID:        "2",
			Embedding: []float32{0.4, 0.3, 0.2, 0.1},
			Chunk:     vectorstore.Chunk{Type: "text", Content: "second chunk"},
			Metadata:  map[string]any{"fileName": "b.txt"},
		},
	}

	t.Run("Add", func(t *testing.T) {
		require.NoError(t, store.Add(ctx, entries))
	})

	t.Run("SimilaritySearch", func(t *testing.T) {
		time.Sleep(1 * time.Second) // Allow time for indexing

		matches, err := store.Query(ctx, vectorstore.Query{
			Embedding: entries[0].Embedding,
			TopK:      2,
		})
		require.NoError(t, err)
		require.NotEmpty(t, matches)
		assert.Equal(t, "1", matches[0].ID)
		assert.Equal(t, "first chunk", matches[0].Chunk.Content)
		assert.Greater(t, matches[0].Score, float32(0.9))
		assert.Equal(t, "a.txt", matches[0].Metadata["fileName"])
	})

	t.Run("FilteredSearch", func(t *testing.T) {
		matches, err := store.Query(ctx, vectorstore.Query{
			Embedding: entries[0].Embedding,
			TopK:      5,
			Filters:   vectorstore.And(vectorstore.Eq("fileName", "b.txt")),
		})
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "2", matches[0].ID)
	})

	t.Run("FilterOnlyQuery", func(t *testing.T) {
		matches, err := store.Query(ctx, vectorstore.Query{
			TopK:    5,
			Filters: vectorstore.And(vectorstore.Eq("fileName", "a.txt")),
		})
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "1", matches[0].ID)
		assert.Zero(t, matches[0].Score)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "1", "2"))

		time.Sleep(1 * time.Second)
		matches, err := store.Query(ctx, vectorstore.Query{
			TopK:    5,
			Filters: vectorstore.And(vectorstore.Eq("fileName", "a.txt")),
		})
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	require.NoError(t, app.Stop(ctx))
}
