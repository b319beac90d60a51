package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hearthhq/dealdesk/internal/domain/model"
	apperrors "github.com/hearthhq/dealdesk/internal/errors"
	"github.com/hearthhq/dealdesk/internal/mocks"
	"github.com/hearthhq/dealdesk/internal/testutil"
)

// capturingPublisher records every snapshot pushed to the job feed.
type capturingPublisher struct {
	mu        sync.Mutex
	published []*model.AIJob
	err       error
}

func (p *capturingPublisher) PublishJob(_ context.Context, job *model.AIJob) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, job)
	return nil
}

func (p *capturingPublisher) all() []*model.AIJob {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*model.AIJob(nil), p.published...)
}

func newJobService(t *testing.T, opts JobServiceOptions) *JobService {
	t.Helper()
	svc, err := NewJobService(opts)
	require.NoError(t, err)
	return svc
}

func TestNewJobService_RequiredDependencies(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAIJobRepository(ctrl)
	runner := mocks.NewMockJobRunner(ctrl)

	t.Run("missing repo", func(t *testing.T) {
		_, err := NewJobService(JobServiceOptions{Runner: runner})
		assert.Error(t, err)
	})

	t.Run("missing runner", func(t *testing.T) {
		_, err := NewJobService(JobServiceOptions{Repo: repo})
		assert.Error(t, err)
	})

	t.Run("complete", func(t *testing.T) {
		svc, err := NewJobService(JobServiceOptions{Repo: repo, Runner: runner})
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}

func TestJobService_Submit(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAIJobRepository(ctrl)
	runner := mocks.NewMockJobRunner(ctrl)

	req := testutil.NewJobRequest().WithDealID("deal-1").Build()

	runner.EXPECT().
		Submit(gomock.Any(), req).
		Return("job-42", nil)
	repo.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, job *model.AIJob) (*model.AIJob, error) {
			assert.Equal(t, "job-42", job.ID)
			assert.Equal(t, model.AIJobStatusQueued, job.Status)
			assert.Equal(t, model.AIJobTypeDealAnalysis, job.Type)
			require.NotNil(t, job.DealID)
			assert.Equal(t, "deal-1", *job.DealID)
			return job, nil
		})

	svc := newJobService(t, JobServiceOptions{Repo: repo, Runner: runner})

	job, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "job-42", job.ID)
	assert.Equal(t, model.AIJobStatusQueued, job.Status)
}

func TestJobService_Submit_InvalidRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAIJobRepository(ctrl)
	runner := mocks.NewMockJobRunner(ctrl)

	svc := newJobService(t, JobServiceOptions{Repo: repo, Runner: runner})

	t.Run("nil request", func(t *testing.T) {
		_, err := svc.Submit(context.Background(), nil)
		assert.Error(t, err)
	})

	t.Run("unknown job type", func(t *testing.T) {
		req := testutil.NewJobRequest().WithType("mind_reading").Build()
		_, err := svc.Submit(context.Background(), req)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("empty payload", func(t *testing.T) {
		req := testutil.NewJobRequest().WithPayloadString("").Build()
		_, err := svc.Submit(context.Background(), req)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestJobService_Submit_RunnerFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAIJobRepository(ctrl)
	runner := mocks.NewMockJobRunner(ctrl)

	runner.EXPECT().
		Submit(gomock.Any(), gomock.Any()).
		Return("", errors.New("assistant unavailable"))

	svc := newJobService(t, JobServiceOptions{Repo: repo, Runner: runner})

	_, err := svc.Submit(context.Background(), testutil.NewJobRequest().Build())
	require.Error(t, err)
	assert.ErrorContains(t, err, "assistant unavailable")
}

func TestJobService_Cancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAIJobRepository(ctrl)
	runner := mocks.NewMockJobRunner(ctrl)
	pub := &capturingPublisher{}

	repo.EXPECT().
		GetByID(gomock.Any(), "job-1").
		Return(&model.AIJob{ID: "job-1", Status: model.AIJobStatusRunning}, nil)
	runner.EXPECT().
		RequestCancel(gomock.Any(), "job-1").
		Return(nil)
	repo.EXPECT().
		UpdateStatus(gomock.Any(), "job-1", model.AIJobStatusCancelled).
		Return(&model.AIJob{ID: "job-1", Status: model.AIJobStatusCancelled}, nil)

	svc := newJobService(t, JobServiceOptions{Repo: repo, Runner: runner, Publisher: pub})

	job, err := svc.Cancel(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, model.AIJobStatusCancelled, job.Status)

	published := pub.all()
	require.Len(t, published, 1)
	assert.Equal(t, model.AIJobStatusCancelled, published[0].Status)
}

func TestJobService_Cancel_TerminalJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAIJobRepository(ctrl)
	runner := mocks.NewMockJobRunner(ctrl)

	repo.EXPECT().
		GetByID(gomock.Any(), "job-1").
		Return(&model.AIJob{ID: "job-1", Status: model.AIJobStatusSucceeded}, nil)
	// No RequestCancel, no UpdateStatus.

	svc := newJobService(t, JobServiceOptions{Repo: repo, Runner: runner})

	_, err := svc.Cancel(context.Background(), "job-1")
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidTransition(err))
}

func TestJobService_Cancel_RunnerFailureStillCancelsLocally(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAIJobRepository(ctrl)
	runner := mocks.NewMockJobRunner(ctrl)

	repo.EXPECT().
		GetByID(gomock.Any(), "job-1").
		Return(&model.AIJob{ID: "job-1", Status: model.AIJobStatusQueued}, nil)
	runner.EXPECT().
		RequestCancel(gomock.Any(), "job-1").
		Return(errors.New("runner unreachable"))
	repo.EXPECT().
		UpdateStatus(gomock.Any(), "job-1", model.AIJobStatusCancelled).
		Return(&model.AIJob{ID: "job-1", Status: model.AIJobStatusCancelled}, nil)

	svc := newJobService(t, JobServiceOptions{Repo: repo, Runner: runner})

	job, err := svc.Cancel(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, model.AIJobStatusCancelled, job.Status)
}

func TestJobService_Cancel_UnknownJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAIJobRepository(ctrl)
	runner := mocks.NewMockJobRunner(ctrl)

	repo.EXPECT().
		GetByID(gomock.Any(), "missing").
		Return(nil, apperrors.NotFoundf("job %s not found", "missing"))

	svc := newJobService(t, JobServiceOptions{Repo: repo, Runner: runner})

	_, err := svc.Cancel(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestJobService_HandleRunnerUpdate(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAIJobRepository(ctrl)
	runner := mocks.NewMockJobRunner(ctrl)
	pub := &capturingPublisher{}

	snapshot := &model.AIJob{ID: "job-1", Status: model.AIJobStatusRunning, Progress: 60}
	repo.EXPECT().
		Upsert(gomock.Any(), snapshot).
		Return(snapshot, nil)

	svc := newJobService(t, JobServiceOptions{Repo: repo, Runner: runner, Publisher: pub})

	job, err := svc.HandleRunnerUpdate(context.Background(), snapshot)
	require.NoError(t, err)
	assert.Equal(t, 60, job.Progress)
	assert.Len(t, pub.all(), 1)
}

func TestJobService_HandleRunnerUpdate_PublishFailureIsSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAIJobRepository(ctrl)
	runner := mocks.NewMockJobRunner(ctrl)
	pub := &capturingPublisher{err: errors.New("feed down")}

	snapshot := &model.AIJob{ID: "job-1", Status: model.AIJobStatusRunning}
	repo.EXPECT().
		Upsert(gomock.Any(), snapshot).
		Return(snapshot, nil)

	svc := newJobService(t, JobServiceOptions{Repo: repo, Runner: runner, Publisher: pub})

	_, err := svc.HandleRunnerUpdate(context.Background(), snapshot)
	assert.NoError(t, err)
}

func TestJobService_Observe_ReconcilesRunnerSnapshots(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAIJobRepository(ctrl)
	runner := mocks.NewMockJobRunner(ctrl)

	terminal := &model.AIJob{ID: "job-1", Status: model.AIJobStatusSucceeded, Progress: 100}
	runner.EXPECT().
		GetStatus(gomock.Any(), "job-1").
		Return(terminal, nil).
		AnyTimes()
	repo.EXPECT().
		Upsert(gomock.Any(), terminal).
		Return(terminal, nil).
		AnyTimes()

	svc := newJobService(t, JobServiceOptions{
		Repo:         repo,
		Runner:       runner,
		PollInterval: 5 * time.Millisecond,
	})
	defer svc.StopObservers()

	ch, stop := svc.Observe(context.Background(), "job-1")
	defer stop()

	select {
	case snap := <-ch:
		assert.Equal(t, model.AIJobStatusSucceeded, snap.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}

	_, open := <-ch
	assert.False(t, open)
}

func TestJobService_Observe_ServesLocalStateWhenRunnerDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAIJobRepository(ctrl)
	runner := mocks.NewMockJobRunner(ctrl)

	runner.EXPECT().
		GetStatus(gomock.Any(), "job-1").
		Return(nil, errors.New("runner unreachable")).
		AnyTimes()
	repo.EXPECT().
		GetByID(gomock.Any(), "job-1").
		Return(&model.AIJob{ID: "job-1", Status: model.AIJobStatusFailed}, nil).
		AnyTimes()

	svc := newJobService(t, JobServiceOptions{
		Repo:         repo,
		Runner:       runner,
		PollInterval: 5 * time.Millisecond,
	})
	defer svc.StopObservers()

	ch, stop := svc.Observe(context.Background(), "job-1")
	defer stop()

	select {
	case snap := <-ch:
		assert.Equal(t, model.AIJobStatusFailed, snap.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
}

func TestJobService_Selectors(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := newJobService(t, JobServiceOptions{
		Repo:   mocks.NewMockAIJobRepository(ctrl),
		Runner: mocks.NewMockJobRunner(ctrl),
	})

	running := &model.AIJob{ID: "b", Status: model.AIJobStatusRunning}
	jobs := []*model.AIJob{
		{ID: "a", Status: model.AIJobStatusQueued},
		running,
		{ID: "c", Status: model.AIJobStatusCancelled},
	}

	assert.Same(t, running, svc.SelectActive(jobs))
	assert.Equal(t, 2, svc.CountPending(jobs))
}

func TestJobService_Stats(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAIJobRepository(ctrl)
	runner := mocks.NewMockJobRunner(ctrl)

	repo.EXPECT().
		Stats(gomock.Any()).
		Return(&model.AIJobStats{Queued: 2, Running: 1, Succeeded: 7}, nil)

	svc := newJobService(t, JobServiceOptions{Repo: repo, Runner: runner})

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Queued)
	assert.Equal(t, 1, stats.Running)
	assert.Equal(t, 7, stats.Succeeded)
}
