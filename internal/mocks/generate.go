// Package mocks provides mock implementations for testing the dealdesk AI action pipeline.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our port interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockAIJobRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(job, nil)
package mocks

// Generate mock for AIJobRepository interface from internal/core package.
// This creates MockAIJobRepository with methods for all AIJobRepository interface methods:
// Create, GetByID, List, Upsert, UpdateStatus, UpdateProgress, Stats
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=ai_job_repository_mock.go github.com/hearthhq/dealdesk/internal/core AIJobRepository

// Generate mock for EntityStore interface from internal/core package.
// This creates MockEntityStore with methods for all EntityStore interface methods:
// Insert, Update, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=entity_store_mock.go github.com/hearthhq/dealdesk/internal/core EntityStore

// Generate mock for TimelineRepository interface from internal/core package.
// This creates MockTimelineRepository with methods for all TimelineRepository interface methods:
// Append, ListByDeal
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=timeline_repository_mock.go github.com/hearthhq/dealdesk/internal/core TimelineRepository

// Generate mock for CacheRepository interface from internal/core package.
// This creates MockCacheRepository with methods for all CacheRepository interface methods:
// Set, Get, Delete, Exists, SetIfNotExists, Health
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=cache_repository_mock.go github.com/hearthhq/dealdesk/internal/core CacheRepository

// Generate mock for InvalidationPublisher interface from internal/core package.
// This creates MockInvalidationPublisher with methods for all InvalidationPublisher interface methods:
// PublishInvalidation
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=invalidation_publisher_mock.go github.com/hearthhq/dealdesk/internal/core InvalidationPublisher

// Generate mock for JobRunner interface from internal/core package.
// This creates MockJobRunner with methods for all JobRunner interface methods:
// Submit, GetStatus, RequestCancel
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=job_runner_mock.go github.com/hearthhq/dealdesk/internal/core JobRunner
