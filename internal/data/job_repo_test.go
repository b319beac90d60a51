package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthhq/dealdesk/internal/domain/model"
	apperrors "github.com/hearthhq/dealdesk/internal/errors"
	"github.com/hearthhq/dealdesk/internal/testutil"
)

func newAIJobRepo(db *sql.DB) *AIJobRepo {
	return NewAIJobRepo(db, AIJobRepoConfig{
		TimeProvider: NewFixedTimeProvider(testutil.TestTime()),
	})
}

func seedJob(t *testing.T, repo *AIJobRepo, status model.AIJobStatus) *model.AIJob {
	t.Helper()
	job, err := repo.Upsert(context.Background(), &model.AIJob{
		ID:           uuid.NewString(),
		Type:         model.AIJobTypeDealAnalysis,
		Status:       status,
		InputPayload: json.RawMessage(`{"deal_id":"deal-123"}`),
	})
	require.NoError(t, err)
	return job
}

func TestAIJobRepo_Create(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := newAIJobRepo(db)
		dealID := uuid.NewString()

		job, err := repo.Create(context.Background(), testutil.NewJobRequest().WithDealID(dealID).Build())
		require.NoError(t, err)

		assert.NotEmpty(t, job.ID)
		assert.Equal(t, model.AIJobStatusQueued, job.Status)
		assert.Equal(t, 0, job.Progress)
		require.NotNil(t, job.DealID)
		assert.Equal(t, dealID, *job.DealID)
		assert.Equal(t, testutil.TestTime(), job.CreatedAt.UTC())
	})
}

func TestAIJobRepo_Create_Validation(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := newAIJobRepo(db)
		ctx := context.Background()

		_, err := repo.Create(ctx, nil)
		assert.Error(t, err)

		_, err = repo.Create(ctx, &model.SubmitAIJobRequest{Type: "mind_reading", InputPayload: json.RawMessage(`{}`)})
		assert.True(t, apperrors.IsValidation(err))

		_, err = repo.Create(ctx, &model.SubmitAIJobRequest{Type: model.AIJobTypeCallSummary})
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestAIJobRepo_GetByID(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := newAIJobRepo(db)
		created := seedJob(t, repo, model.AIJobStatusQueued)

		job, err := repo.GetByID(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, job.ID)

		_, err = repo.GetByID(context.Background(), uuid.NewString())
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestAIJobRepo_List(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := newAIJobRepo(db)
		ctx := context.Background()
		dealID := uuid.NewString()

		seedJob(t, repo, model.AIJobStatusQueued)
		running, err := repo.Upsert(ctx, &model.AIJob{
			ID:           uuid.NewString(),
			Type:         model.AIJobTypeCallSummary,
			Status:       model.AIJobStatusRunning,
			DealID:       &dealID,
			InputPayload: json.RawMessage(`{}`),
		})
		require.NoError(t, err)

		t.Run("unfiltered", func(t *testing.T) {
			jobs, listErr := repo.List(ctx, nil)
			require.NoError(t, listErr)
			assert.Len(t, jobs, 2)
		})

		t.Run("by status", func(t *testing.T) {
			status := model.AIJobStatusRunning
			jobs, listErr := repo.List(ctx, &model.AIJobListOptions{Status: &status})
			require.NoError(t, listErr)
			require.Len(t, jobs, 1)
			assert.Equal(t, running.ID, jobs[0].ID)
		})

		t.Run("by deal", func(t *testing.T) {
			jobs, listErr := repo.List(ctx, &model.AIJobListOptions{DealID: &dealID})
			require.NoError(t, listErr)
			require.Len(t, jobs, 1)
			assert.Equal(t, running.ID, jobs[0].ID)
		})

		t.Run("limit", func(t *testing.T) {
			jobs, listErr := repo.List(ctx, &model.AIJobListOptions{Limit: 1})
			require.NoError(t, listErr)
			assert.Len(t, jobs, 1)
		})
	})
}

func TestAIJobRepo_Upsert(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := newAIJobRepo(db)
		ctx := context.Background()

		t.Run("inserts a new row", func(t *testing.T) {
			job := seedJob(t, repo, model.AIJobStatusQueued)
			assert.Equal(t, model.AIJobStatusQueued, job.Status)
		})

		t.Run("updates a live row", func(t *testing.T) {
			job := seedJob(t, repo, model.AIJobStatusQueued)

			updated, err := repo.Upsert(ctx, &model.AIJob{
				ID:       job.ID,
				Type:     job.Type,
				Status:   model.AIJobStatusRunning,
				Progress: 40,
			})
			require.NoError(t, err)
			assert.Equal(t, model.AIJobStatusRunning, updated.Status)
			assert.Equal(t, 40, updated.Progress)
		})

		t.Run("terminal rows are sinks", func(t *testing.T) {
			job := seedJob(t, repo, model.AIJobStatusQueued)

			_, err := repo.Upsert(ctx, &model.AIJob{ID: job.ID, Type: job.Type, Status: model.AIJobStatusSucceeded, Progress: 100})
			require.NoError(t, err)

			// A stale running snapshot arrives after the terminal report.
			stale, err := repo.Upsert(ctx, &model.AIJob{ID: job.ID, Type: job.Type, Status: model.AIJobStatusRunning, Progress: 80})
			require.NoError(t, err)
			assert.Equal(t, model.AIJobStatusSucceeded, stale.Status)
			assert.Equal(t, 100, stale.Progress)
		})

		t.Run("invalid snapshots are rejected", func(t *testing.T) {
			_, err := repo.Upsert(ctx, &model.AIJob{ID: uuid.NewString(), Status: "paused"})
			assert.True(t, apperrors.IsValidation(err))

			_, err = repo.Upsert(ctx, nil)
			assert.Error(t, err)
		})
	})
}

func TestAIJobRepo_UpdateStatus(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := newAIJobRepo(db)
		ctx := context.Background()

		t.Run("legal transition", func(t *testing.T) {
			job := seedJob(t, repo, model.AIJobStatusQueued)

			updated, err := repo.UpdateStatus(ctx, job.ID, model.AIJobStatusRunning)
			require.NoError(t, err)
			assert.Equal(t, model.AIJobStatusRunning, updated.Status)
		})

		t.Run("queued cannot succeed directly", func(t *testing.T) {
			job := seedJob(t, repo, model.AIJobStatusQueued)

			_, err := repo.UpdateStatus(ctx, job.ID, model.AIJobStatusSucceeded)
			assert.True(t, apperrors.IsInvalidTransition(err))
		})

		t.Run("terminal status never moves", func(t *testing.T) {
			job := seedJob(t, repo, model.AIJobStatusCancelled)

			_, err := repo.UpdateStatus(ctx, job.ID, model.AIJobStatusRunning)
			assert.True(t, apperrors.IsInvalidTransition(err))
		})

		t.Run("unknown job", func(t *testing.T) {
			_, err := repo.UpdateStatus(ctx, uuid.NewString(), model.AIJobStatusRunning)
			assert.True(t, apperrors.IsNotFound(err))
		})
	})
}

func TestAIJobRepo_UpdateProgress(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := newAIJobRepo(db)
		ctx := context.Background()

		t.Run("running job", func(t *testing.T) {
			job := seedJob(t, repo, model.AIJobStatusRunning)

			require.NoError(t, repo.UpdateProgress(ctx, job.ID, 65))

			fetched, err := repo.GetByID(ctx, job.ID)
			require.NoError(t, err)
			assert.Equal(t, 65, fetched.Progress)
		})

		t.Run("non-running job is untouched", func(t *testing.T) {
			job := seedJob(t, repo, model.AIJobStatusQueued)

			require.NoError(t, repo.UpdateProgress(ctx, job.ID, 65))

			fetched, err := repo.GetByID(ctx, job.ID)
			require.NoError(t, err)
			assert.Equal(t, 0, fetched.Progress)
		})

		t.Run("out of range", func(t *testing.T) {
			job := seedJob(t, repo, model.AIJobStatusRunning)

			assert.True(t, apperrors.IsValidation(repo.UpdateProgress(ctx, job.ID, 101)))
			assert.True(t, apperrors.IsValidation(repo.UpdateProgress(ctx, job.ID, -1)))
		})
	})
}

func TestAIJobRepo_Stats(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := newAIJobRepo(db)

		seedJob(t, repo, model.AIJobStatusQueued)
		seedJob(t, repo, model.AIJobStatusQueued)
		seedJob(t, repo, model.AIJobStatusRunning)
		seedJob(t, repo, model.AIJobStatusFailed)

		stats, err := repo.Stats(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 2, stats.Queued)
		assert.Equal(t, 1, stats.Running)
		assert.Equal(t, 0, stats.Succeeded)
		assert.Equal(t, 1, stats.Failed)
		assert.Equal(t, 0, stats.Cancelled)
	})
}
