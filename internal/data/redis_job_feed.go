package data

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/hearthhq/dealdesk/internal/domain/model"
)

// jobFeedChannelPrefix namespaces per-job pub/sub channels.
const jobFeedChannelPrefix = "dealdesk:jobs:"

// RedisJobFeed is the optional push transport for job observation. The runner
// callback publishes snapshots; observers subscribe per job id. When Redis is
// unavailable the observer falls back to polling, so every method here treats
// transport failure as recoverable.
type RedisJobFeed struct {
	client redis.UniversalClient
	logger *slog.Logger
}

// NewRedisJobFeed creates a new RedisJobFeed with the given Redis client.
func NewRedisJobFeed(client redis.UniversalClient, logger *slog.Logger) *RedisJobFeed {
	return &RedisJobFeed{client: client, logger: logger}
}

func jobFeedChannel(jobID string) string {
	return jobFeedChannelPrefix + jobID
}

// PublishJob pushes a job snapshot to subscribers of that job's channel.
func (f *RedisJobFeed) PublishJob(ctx context.Context, job *model.AIJob) error {
	if job == nil || strings.TrimSpace(job.ID) == "" {
		return ErrJobIDRequired
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job snapshot: %w", err)
	}

	if err := f.client.Publish(ctx, jobFeedChannel(job.ID), payload).Err(); err != nil {
		return fmt.Errorf("publish job snapshot: %w", err)
	}
	return nil
}

// SubscribeJob opens a push subscription for one job id. The returned channel
// carries decoded snapshots; the returned func tears the subscription down.
// Malformed messages are logged and dropped.
func (f *RedisJobFeed) SubscribeJob(ctx context.Context, jobID string) (<-chan *model.AIJob, func(), error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, nil, ErrJobIDRequired
	}

	sub := f.client.Subscribe(ctx, jobFeedChannel(jobID))

	// Confirm the subscription before handing the channel out, so a dead
	// transport is reported as an error and the caller can fall back to polling.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("subscribe job feed: %w", err)
	}

	out := make(chan *model.AIJob)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var job model.AIJob
			if err := json.Unmarshal([]byte(msg.Payload), &job); err != nil {
				if f.logger != nil {
					f.logger.Warn("dropping malformed job snapshot",
						"channel", msg.Channel, "error", err)
				}
				continue
			}
			select {
			case out <- &job:
			case <-ctx.Done():
				return
			}
		}
	}()

	unsub := func() {
		_ = sub.Close()
	}
	return out, unsub, nil
}
