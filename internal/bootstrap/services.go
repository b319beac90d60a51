package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/hearthhq/dealdesk/config"
	"github.com/hearthhq/dealdesk/internal/adapters/assistant"
	"github.com/hearthhq/dealdesk/internal/data"
	"github.com/hearthhq/dealdesk/internal/observability/statsd"
	"github.com/hearthhq/dealdesk/internal/service"
)

// ServiceContainer holds the constructed services and their shared adapters.
type ServiceContainer struct {
	Jobs     *service.JobService
	Patches  *service.PatchService
	Timeline *data.TimelineRepo
	Cache    *data.RedisCacheRepo
	Metrics  *statsd.Client
}

// ServiceDependencies groups the external resources services are built from.
type ServiceDependencies struct {
	Config *config.AppConfig
	DB     *sql.DB
	Redis  redis.UniversalClient
	Logger *slog.Logger
}

// BuildServices constructs the full service graph from shared connections.
func BuildServices(deps ServiceDependencies) (*ServiceContainer, error) {
	if deps.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if deps.DB == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	metrics, err := buildMetrics(deps.Config.Observability.Metrics, logger)
	if err != nil {
		return nil, fmt.Errorf("build metrics client: %w", err)
	}

	tp := &data.RealTimeProvider{}
	jobRepo := data.NewAIJobRepo(deps.DB, data.AIJobRepoConfig{Logger: logger, TimeProvider: tp})
	entityStore := data.NewPgEntityStore(deps.DB, logger)
	timelineRepo := data.NewTimelineRepo(deps.DB, tp)

	runner, err := assistant.NewClient(assistant.ClientOptions{
		BaseURL:      deps.Config.Assistant.BaseURL,
		Logger:       logger,
		TokenURL:     deps.Config.Assistant.TokenURL,
		ClientID:     deps.Config.Assistant.ClientID,
		ClientSecret: deps.Config.Assistant.ClientSecret,
	})
	if err != nil {
		return nil, fmt.Errorf("build assistant client: %w", err)
	}

	container := &ServiceContainer{
		Timeline: timelineRepo,
		Metrics:  metrics,
	}

	jobOpts := service.JobServiceOptions{
		Repo:         jobRepo,
		Runner:       runner,
		PollInterval: deps.Config.Tracker.PollInterval,
		Logger:       logger,
	}
	patchOpts := service.PatchServiceOptions{
		Store:    entityStore,
		Timeline: timelineRepo,
		Logger:   logger,
	}
	if metrics != nil {
		jobOpts.Metrics = metrics
		patchOpts.Metrics = metrics
	}

	// Redis is optional: without it there is no view cache, no invalidation
	// fan-out, and job observation falls back to polling only.
	if deps.Redis != nil {
		container.Cache = data.NewRedisCacheRepo(deps.Redis)
		feed := data.NewRedisJobFeed(deps.Redis, logger)
		jobOpts.Subscriber = feed
		jobOpts.Publisher = feed
		patchOpts.Invalidations = data.NewRedisInvalidationPublisher(deps.Redis, logger)
	}

	jobs, err := service.NewJobService(jobOpts)
	if err != nil {
		return nil, fmt.Errorf("build job service: %w", err)
	}
	container.Jobs = jobs

	patches, err := service.NewPatchService(patchOpts)
	if err != nil {
		return nil, fmt.Errorf("build patch service: %w", err)
	}
	container.Patches = patches

	return container, nil
}

func buildMetrics(cfg config.ObservabilityMetricsConfig, logger *slog.Logger) (*statsd.Client, error) {
	if !cfg.IsEnabled() {
		return nil, nil
	}
	return statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.StatsdAddress,
		Prefix:  cfg.StatsdPrefix,
		Logger:  logger,
	})
}
