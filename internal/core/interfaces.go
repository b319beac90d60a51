// Package core provides the business logic contracts for the dealdesk AI action pipeline.
package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hearthhq/dealdesk/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// AIJobRepository defines the interface for assistant-job metadata operations.
// The pipeline owns job metadata only; entity data belongs to the EntityStore.
type AIJobRepository interface {
	Create(ctx context.Context, req *model.SubmitAIJobRequest) (*model.AIJob, error)
	GetByID(ctx context.Context, id string) (*model.AIJob, error)
	List(ctx context.Context, opts *model.AIJobListOptions) ([]*model.AIJob, error)
	// Upsert reconciles a runner-reported snapshot into local state. Terminal
	// local statuses are sinks: a stale snapshot never reopens them.
	Upsert(ctx context.Context, job *model.AIJob) (*model.AIJob, error)
	// UpdateStatus moves a job to a new status, enforcing the transition table.
	UpdateStatus(ctx context.Context, id string, status model.AIJobStatus) (*model.AIJob, error)
	// UpdateProgress records runner progress (0-100) for a running job.
	UpdateProgress(ctx context.Context, id string, progress int) error
	Stats(ctx context.Context) (*model.AIJobStats, error)
}

// EntityStore defines per-collection mutation operations against the backing
// CRM entity store. The store is the only shared mutable resource the applier
// touches; it is assumed to serialize per-row writes itself.
type EntityStore interface {
	// Insert adds a record to the collection and returns the assigned id.
	Insert(ctx context.Context, collection string, record json.RawMessage) (string, error)
	// Update applies a partial update keyed by id and returns the same id.
	Update(ctx context.Context, collection, id string, partial json.RawMessage) (string, error)
	// Delete removes the entity keyed by id.
	Delete(ctx context.Context, collection, id string) error
}

// TimelineRepository defines the interface for deal activity-feed records.
type TimelineRepository interface {
	Append(ctx context.Context, req *model.AppendTimelineEventRequest) (*model.TimelineEvent, error)
	ListByDeal(ctx context.Context, opts model.TimelineListOptions) ([]*model.TimelineEvent, error)
}

// CacheRepository defines the interface for caching operations.
type CacheRepository interface {
	// Set stores a value in the cache with the given key and TTL.
	// If TTL is 0, the key will not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get retrieves a value from the cache by key.
	// Returns nil if the key doesn't exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a key from the cache.
	// Returns true if the key was deleted, false if it didn't exist.
	Delete(ctx context.Context, key string) (bool, error)

	// Exists checks if a key exists in the cache.
	Exists(ctx context.Context, key string) (bool, error)

	// SetIfNotExists atomically sets a key only if it doesn't already exist.
	// Returns true if the key was set, false if it already existed.
	// This is useful for implementing short-lived locks and deduplication.
	SetIfNotExists(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// Health checks the health of the cache connection.
	Health(ctx context.Context) error
}

// InvalidationPublisher pushes stale-view keys to the external cache/view layer.
// The pipeline computes affected keys; it never owns or invalidates a cache itself.
type InvalidationPublisher interface {
	PublishInvalidation(ctx context.Context, keys []string) error
}

// JobRunner is the external assistant service that executes AIJobs.
type JobRunner interface {
	Submit(ctx context.Context, req *model.SubmitAIJobRequest) (string, error)
	GetStatus(ctx context.Context, jobID string) (*model.AIJob, error)
	RequestCancel(ctx context.Context, jobID string) error
}
