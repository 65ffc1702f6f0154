//go:build integration

package sink

import (
	"context"
	"fmt"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedisContainer starts a throwaway Redis for the test.
func setupRedisContainer(t *testing.T) *redis.Client {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	client, err := NewRedisClient(fmt.Sprintf("redis://%s:%s/0", host, port.Port()))
	if err != nil {
		t.Fatalf("Failed to create Redis client: %v", err)
	}

	t.Cleanup(func() {
		client.Close()
		container.Terminate(context.Background())
	})

	return client
}

func TestPublisher_Container(t *testing.T) {
	client := setupRedisContainer(t)
	publisher := NewPublisher(client)
	ctx := context.Background()

	ids := make([]string, 0, 45)
	for i := 1; i <= 45; i++ {
		ids = append(ids, fmt.Sprintf("share-%02d", i))
	}

	require.NoError(t, publisher.Publish(ctx, DefaultKey, ids))

	loaded, err := publisher.Load(ctx, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, ids, loaded)

	count, err := client.Get(ctx, DefaultKey+":count").Int()
	require.NoError(t, err)
	assert.Equal(t, 45, count)

	// Consumers pop from the head in collection order.
	first, err := client.LPop(ctx, DefaultKey).Result()
	require.NoError(t, err)
	assert.Equal(t, "share-01", first)
}
