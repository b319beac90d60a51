package data

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// invalidationChannel is the pub/sub channel stale-view keys are announced on.
const invalidationChannel = "dealdesk:invalidation"

// RedisInvalidationPublisher implements the InvalidationPublisher port. It
// deletes the stale keys from the shared view cache and announces them on a
// pub/sub channel so connected clients can refresh.
type RedisInvalidationPublisher struct {
	client redis.UniversalClient
	logger *slog.Logger
}

// NewRedisInvalidationPublisher creates a new RedisInvalidationPublisher.
func NewRedisInvalidationPublisher(client redis.UniversalClient, logger *slog.Logger) *RedisInvalidationPublisher {
	return &RedisInvalidationPublisher{client: client, logger: logger}
}

// PublishInvalidation drops the given keys from the view cache and broadcasts
// them. The key set is computed by the caller; this publisher owns no cache
// policy of its own.
func (p *RedisInvalidationPublisher) PublishInvalidation(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	payload, err := json.Marshal(keys)
	if err != nil {
		return fmt.Errorf("marshal invalidation keys: %w", err)
	}

	// Cache drop and broadcast are independent; run them concurrently.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := p.client.Del(gctx, keys...).Err(); err != nil {
			return fmt.Errorf("delete stale view keys: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := p.client.Publish(gctx, invalidationChannel, payload).Err(); err != nil {
			return fmt.Errorf("publish invalidation keys: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if p.logger != nil {
		p.logger.DebugContext(ctx, "invalidation published", "keys", len(keys))
	}
	return nil
}
