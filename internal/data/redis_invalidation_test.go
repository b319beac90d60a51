package data

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisInvalidationPublisher_DropsKeysAndBroadcasts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client := setupTestRedis(t)
	defer client.Close()

	pub := NewRedisInvalidationPublisher(client, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Seed the view cache with entries the apply made stale.
	keys := []string{"views:deal:deal-1", "views:deals", "views:tasks"}
	for _, key := range keys {
		require.NoError(t, client.Set(ctx, key, "cached view", time.Minute).Err())
	}

	sub := client.Subscribe(ctx, invalidationChannel)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, pub.PublishInvalidation(ctx, keys))

	// The stale entries are gone from the cache.
	for _, key := range keys {
		exists, existsErr := client.Exists(ctx, key).Result()
		require.NoError(t, existsErr)
		assert.Zero(t, exists, "key %s should have been dropped", key)
	}

	// And the key list was announced to connected clients.
	select {
	case msg := <-sub.Channel():
		var got []string
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, keys, got)
	case <-ctx.Done():
		t.Fatal("timed out waiting for invalidation broadcast")
	}
}

func TestRedisInvalidationPublisher_EmptyKeySetIsANoop(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	pub := NewRedisInvalidationPublisher(client, nil)

	assert.NoError(t, pub.PublishInvalidation(context.Background(), nil))
	assert.NoError(t, pub.PublishInvalidation(context.Background(), []string{}))
}
