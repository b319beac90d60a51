package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hearthhq/dealdesk/internal/core"
	domainjob "github.com/hearthhq/dealdesk/internal/domain/job"
	"github.com/hearthhq/dealdesk/internal/domain/model"
	apperrors "github.com/hearthhq/dealdesk/internal/errors"
	"github.com/hearthhq/dealdesk/internal/observability/metrics"
	"github.com/hearthhq/dealdesk/internal/observability/statsd"
)

// JobSnapshotPublisher pushes job snapshots to the optional push channel that
// observers subscribe to. Publish failures degrade observation to poll-only.
type JobSnapshotPublisher interface {
	PublishJob(ctx context.Context, job *model.AIJob) error
}

// JobServiceOptions groups dependencies for JobService.
type JobServiceOptions struct {
	Repo         core.AIJobRepository // Required: local job metadata
	Runner       core.JobRunner       // Required: external assistant service
	Subscriber   domainjob.Subscriber // Optional: push channel for observation
	Publisher    JobSnapshotPublisher // Optional: push-channel fan-out for runner callbacks
	PollInterval time.Duration        // Optional: observe re-poll cadence; defaults to 5s
	Logger       *slog.Logger         // Optional: structured logger
	Metrics      statsd.Sink          // Optional: lifecycle metrics
}

// JobService tracks the lifecycle of assistant jobs.
//
// This service manages:
// - Job submission to the external runner and local metadata bookkeeping
// - Cancellation with lifecycle transition enforcement
// - Hybrid poll/push observation streams per job id
// - Pure selectors over job collections (active job, pending count).
type JobService struct {
	repo     core.AIJobRepository
	runner   core.JobRunner
	observer *domainjob.Observer
	pub      JobSnapshotPublisher
	logger   *slog.Logger
	metrics  statsd.Sink
}

// NewJobService constructs a new JobService.
func NewJobService(opts JobServiceOptions) (*JobService, error) {
	if opts.Repo == nil {
		return nil, errors.New("AIJobRepository is required")
	}
	if opts.Runner == nil {
		return nil, errors.New("JobRunner is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "job_service")
	}

	svc := &JobService{
		repo:    opts.Repo,
		runner:  opts.Runner,
		pub:     opts.Publisher,
		logger:  logger,
		metrics: opts.Metrics,
	}

	observer, err := domainjob.NewObserver(domainjob.ObserverOptions{
		Poller:     &reconcilingPoller{svc: svc},
		Subscriber: opts.Subscriber,
		Interval:   opts.PollInterval,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create job observer: %w", err)
	}
	svc.observer = observer

	return svc, nil
}

// MustNewJobService constructs a new JobService and panics on error.
// Use this when you're certain the options are valid (e.g., in main.go).
func MustNewJobService(opts JobServiceOptions) *JobService {
	svc, err := NewJobService(opts)
	if err != nil {
		//nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
		panic(fmt.Sprintf("failed to create JobService: %v", err))
	}
	return svc
}

// Submit hands a new job to the external runner and records it locally in the
// queued state. The runner assigns the job id.
func (s *JobService) Submit(ctx context.Context, req *model.SubmitAIJobRequest) (*model.AIJob, error) {
	if req == nil {
		return nil, errors.New("submit job request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	jobID, err := s.runner.Submit(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("submit job to runner: %w", err)
	}

	job, err := s.repo.Upsert(ctx, &model.AIJob{
		ID:           jobID,
		Type:         req.Type,
		Status:       model.AIJobStatusQueued,
		DealID:       req.DealID,
		InputPayload: req.InputPayload,
	})
	if err != nil {
		return nil, fmt.Errorf("record submitted job: %w", err)
	}

	metrics.EmitJobTransition(s.metrics, metrics.JobTransitionMetric{
		JobType: string(job.Type),
		To:      string(job.Status),
	})

	if s.logger != nil {
		s.logger.InfoContext(ctx, "job submitted",
			"id", job.ID, "type", job.Type, "deal_id", job.DealID)
	}
	return job, nil
}

// Cancel requests the runner to stop a job and optimistically moves the local
// status to cancelled. Cancelling a job whose status is already terminal fails
// with an InvalidTransition error.
func (s *JobService) Cancel(ctx context.Context, jobID string) (*model.AIJob, error) {
	current, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if !domainjob.Cancellable(current.Status) {
		return nil, apperrors.InvalidTransitionf(
			"job %s is %s and can no longer be cancelled", jobID, current.Status)
	}

	// Best-effort stop request; the local transition proceeds regardless so
	// the client sees the cancellation immediately. The runner's own terminal
	// report, if the stop came too late, loses against our terminal status.
	if err := s.runner.RequestCancel(ctx, jobID); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "runner cancel request failed",
			"id", jobID, "error", err)
	}

	job, err := s.repo.UpdateStatus(ctx, jobID, model.AIJobStatusCancelled)
	if err != nil {
		return nil, err
	}

	metrics.EmitJobTransition(s.metrics, metrics.JobTransitionMetric{
		JobType: string(job.Type),
		From:    string(current.Status),
		To:      string(job.Status),
	})

	s.publishSnapshot(ctx, job)
	return job, nil
}

// Observe returns a stream of snapshots for one job id, combining an immediate
// point read with periodic re-polls and, when the push channel is available,
// push notifications. The stream ends after a terminal snapshot; the returned
// stop func cancels observation without touching the job itself.
func (s *JobService) Observe(ctx context.Context, jobID string) (<-chan model.AIJob, func()) {
	return s.observer.Observe(ctx, jobID)
}

// StopObservers cancels every in-flight observation stream.
func (s *JobService) StopObservers() {
	s.observer.StopAll()
}

// HandleRunnerUpdate reconciles a runner-reported snapshot (status callback or
// progress ping) into local state and fans it out to the push channel.
func (s *JobService) HandleRunnerUpdate(ctx context.Context, snapshot *model.AIJob) (*model.AIJob, error) {
	job, err := s.repo.Upsert(ctx, snapshot)
	if err != nil {
		return nil, err
	}

	s.publishSnapshot(ctx, job)
	return job, nil
}

// GetByID returns the locally known state of one job.
func (s *JobService) GetByID(ctx context.Context, jobID string) (*model.AIJob, error) {
	return s.repo.GetByID(ctx, jobID)
}

// List returns jobs matching the given options.
func (s *JobService) List(ctx context.Context, opts *model.AIJobListOptions) ([]*model.AIJob, error) {
	return s.repo.List(ctx, opts)
}

// Stats returns per-status job counts.
func (s *JobService) Stats(ctx context.Context) (*model.AIJobStats, error) {
	return s.repo.Stats(ctx)
}

// SelectActive returns the single running job from the collection, or nil.
func (s *JobService) SelectActive(jobs []*model.AIJob) *model.AIJob {
	return domainjob.SelectActive(jobs)
}

// CountPending returns how many jobs are queued or running.
func (s *JobService) CountPending(jobs []*model.AIJob) int {
	return domainjob.CountPending(jobs)
}

func (s *JobService) publishSnapshot(ctx context.Context, job *model.AIJob) {
	if s.pub == nil || job == nil {
		return
	}
	if err := s.pub.PublishJob(ctx, job); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "job snapshot publish failed",
			"id", job.ID, "error", err)
	}
}

// reconcilingPoller reads a job from the runner and reconciles the snapshot
// into the local repository, so observation keeps local state current. When
// the runner is unreachable the locally stored state is served instead, and
// the transport error surfaces only if there is no local state either; the
// observer retries it on the next tick.
type reconcilingPoller struct {
	svc *JobService
}

func (p *reconcilingPoller) GetJob(ctx context.Context, jobID string) (*model.AIJob, error) {
	snapshot, err := p.svc.runner.GetStatus(ctx, jobID)
	if err != nil {
		if local, localErr := p.svc.repo.GetByID(ctx, jobID); localErr == nil {
			return local, nil
		}
		return nil, err
	}

	job, err := p.svc.repo.Upsert(ctx, snapshot)
	if err != nil {
		// Reconciliation failure should not hide the runner's answer.
		return snapshot, nil //nolint:nilerr // snapshot is still valid for the stream
	}
	return job, nil
}
