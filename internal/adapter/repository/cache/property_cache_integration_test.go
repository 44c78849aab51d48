//go:build integration

package cache

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/estate/domain"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testClient *redis.Client

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start Redis resource: %s", err)
	}

	addr := resource.GetHostPort("6379/tcp")
	if err := pool.Retry(func() error {
		var errRetry error
		testClient, errRetry = NewRedisClient(addr, "", 0, logger.NewNop())
		return errRetry
	}); err != nil {
		log.Fatalf("Could not connect to Redis: %s", err)
	}

	code := m.Run()

	_ = testClient.Close()
	if err := pool.Purge(resource); err != nil {
		log.Printf("Could not purge Redis resource: %s", err)
	}
	os.Exit(code)
}

func TestPropertyCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewPropertyCache(testClient, time.Minute, logger.NewNop())
	id := fmt.Sprintf("p-%d", time.Now().UnixNano())

	miss, err := c.GetProperty(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, miss)

	p := &domain.Property{
		ID:            id,
		Name:          "Canal house",
		ExpectedPrice: 125000,
		State:         domain.StateOfferReceived,
		Photos:        []string{"a.jpg"},
		Tags:          []*domain.PropertyTag{{ID: "t1", Name: "cozy"}},
	}
	require.NoError(t, c.SetProperty(ctx, p))

	got, err := c.GetProperty(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, domain.StateOfferReceived, got.State)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "cozy", got.Tags[0].Name)

	ttl, err := testClient.TTL(ctx, propertyKey(id)).Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, time.Minute)

	require.NoError(t, c.DeleteProperty(ctx, id))
	miss, err = c.GetProperty(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, miss)
}
