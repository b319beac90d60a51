// Package data provides database access layer and repository implementations for the dealdesk AI action pipeline.
package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/hearthhq/dealdesk/internal/data/pgxutil"
	domainjob "github.com/hearthhq/dealdesk/internal/domain/job"
	"github.com/hearthhq/dealdesk/internal/domain/model"
	apperrors "github.com/hearthhq/dealdesk/internal/errors"
)

// AIJobRepoConfig holds configuration options for the assistant-job repository.
type AIJobRepoConfig struct {
	Logger       *slog.Logger
	TimeProvider TimeProvider
}

// AIJobRepo provides database operations for assistant-job metadata.
type AIJobRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
	logger       *slog.Logger
}

// NewAIJobRepo creates a new AIJobRepo instance with the given database connection and configuration.
func NewAIJobRepo(db *sql.DB, cfg AIJobRepoConfig) *AIJobRepo {
	tp := cfg.TimeProvider
	if tp == nil {
		tp = &RealTimeProvider{}
	}

	return &AIJobRepo{
		DB:           db,
		timeProvider: tp,
		logger:       cfg.Logger,
	}
}

const aiJobColumns = `
  id,
  type,
  status,
  progress,
  deal_id,
  input_payload,
  last_error,
  created_at,
  updated_at
`

const defaultJobListLimit = 50

// Create inserts a new job in the queued state.
func (r *AIJobRepo) Create(ctx context.Context, req *model.SubmitAIJobRequest) (*model.AIJob, error) {
	if req == nil {
		return nil, errors.New("submit job request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	now := r.timeProvider.Now().UTC()
	row := r.DB.QueryRowContext(ctx, `
		INSERT INTO ai_jobs (id, type, status, progress, deal_id, input_payload, created_at, updated_at)
		VALUES ($1, $2, $3, 0, $4, $5, $6, $6)
		RETURNING `+aiJobColumns,
		uuid.NewString(), req.Type, model.AIJobStatusQueued, req.DealID, []byte(req.InputPayload), now,
	)

	job, err := scanAIJob(row)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return job, nil
}

// GetByID retrieves a job by its id.
func (r *AIJobRepo) GetByID(ctx context.Context, id string) (*model.AIJob, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrJobIDRequired
	}

	row := r.DB.QueryRowContext(ctx,
		`SELECT `+aiJobColumns+` FROM ai_jobs WHERE id = $1`, id)

	job, err := scanAIJob(row)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return job, nil
}

// List returns jobs matching the given options, newest first.
func (r *AIJobRepo) List(ctx context.Context, opts *model.AIJobListOptions) ([]*model.AIJob, error) {
	if opts == nil {
		opts = &model.AIJobListOptions{}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultJobListLimit
	}

	var (
		where []string
		args  []any
	)
	if opts.Status != nil {
		args = append(args, *opts.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if opts.DealID != nil {
		args = append(args, *opts.DealID)
		where = append(where, fmt.Sprintf("deal_id = $%d", len(args)))
	}

	query := `SELECT ` + aiJobColumns + ` FROM ai_jobs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, opts.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var jobs []*model.AIJob
	for rows.Next() {
		job, scanErr := scanAIJob(rows)
		if scanErr != nil {
			return nil, apperrors.MapDBError(scanErr)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return jobs, nil
}

// Upsert reconciles a runner-reported snapshot into local state. Terminal local
// statuses are sinks: when the stored job is already terminal the stored row is
// returned unchanged, regardless of what the snapshot claims.
func (r *AIJobRepo) Upsert(ctx context.Context, job *model.AIJob) (*model.AIJob, error) {
	if job == nil || strings.TrimSpace(job.ID) == "" {
		return nil, ErrJobIDRequired
	}
	if !job.Status.Valid() {
		return nil, apperrors.Validationf("invalid job status %q", string(job.Status))
	}

	now := r.timeProvider.Now().UTC()
	var out *model.AIJob

	err := pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{
		Fn: func(tx *sql.Tx) error {
			var current model.AIJobStatus
			err := tx.QueryRowContext(ctx,
				`SELECT status FROM ai_jobs WHERE id = $1 FOR UPDATE`, job.ID).Scan(&current)

			switch {
			case errors.Is(err, sql.ErrNoRows):
				row := tx.QueryRowContext(ctx, `
					INSERT INTO ai_jobs (id, type, status, progress, deal_id, input_payload, last_error, created_at, updated_at)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
					RETURNING `+aiJobColumns,
					job.ID, job.Type, job.Status, job.Progress, job.DealID,
					[]byte(job.InputPayload), job.LastError, now,
				)
				out, err = scanAIJob(row)
				return err
			case err != nil:
				return err
			}

			if current.Terminal() {
				// Stale snapshot; the stored terminal row wins.
				row := tx.QueryRowContext(ctx,
					`SELECT `+aiJobColumns+` FROM ai_jobs WHERE id = $1`, job.ID)
				out, err = scanAIJob(row)
				return err
			}

			row := tx.QueryRowContext(ctx, `
				UPDATE ai_jobs
				SET status = $2, progress = $3, last_error = $4, updated_at = $5
				WHERE id = $1
				RETURNING `+aiJobColumns,
				job.ID, job.Status, job.Progress, job.LastError, now,
			)
			out, err = scanAIJob(row)
			return err
		},
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}

// UpdateStatus moves a job to a new status, enforcing the lifecycle transition
// table. Illegal transitions (including any move out of a terminal status)
// return an InvalidTransition error.
func (r *AIJobRepo) UpdateStatus(ctx context.Context, id string, status model.AIJobStatus) (*model.AIJob, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrJobIDRequired
	}
	if !status.Valid() {
		return nil, apperrors.Validationf("invalid job status %q", string(status))
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domainjob.CanTransition(current.Status, status) {
		return nil, apperrors.InvalidTransitionf(
			"cannot move job %s from %s to %s", id, current.Status, status)
	}

	// Compare-and-set on the observed status so a concurrent transition loses cleanly.
	row := r.DB.QueryRowContext(ctx, `
		UPDATE ai_jobs
		SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2
		RETURNING `+aiJobColumns,
		id, current.Status, status, r.timeProvider.Now().UTC(),
	)

	job, err := scanAIJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.InvalidTransitionf(
				"job %s changed status concurrently; cannot move to %s", id, status)
		}
		return nil, apperrors.MapDBError(err)
	}
	return job, nil
}

// UpdateProgress records runner progress for a running job. Progress is only
// meaningful while the job is running; updates against any other status are
// silently dropped.
func (r *AIJobRepo) UpdateProgress(ctx context.Context, id string, progress int) error {
	if strings.TrimSpace(id) == "" {
		return ErrJobIDRequired
	}
	if progress < 0 || progress > 100 {
		return apperrors.Validationf("progress must be between 0 and 100, got %d", progress)
	}

	_, err := r.DB.ExecContext(ctx, `
		UPDATE ai_jobs
		SET progress = $2, updated_at = $3
		WHERE id = $1 AND status = $4`,
		id, progress, r.timeProvider.Now().UTC(), model.AIJobStatusRunning,
	)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	return nil
}

// Stats returns per-status job counts.
func (r *AIJobRepo) Stats(ctx context.Context) (*model.AIJobStats, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'queued'),
			COUNT(*) FILTER (WHERE status = 'running'),
			COUNT(*) FILTER (WHERE status = 'succeeded'),
			COUNT(*) FILTER (WHERE status = 'failed'),
			COUNT(*) FILTER (WHERE status = 'cancelled')
		FROM ai_jobs`)

	var stats model.AIJobStats
	if err := row.Scan(&stats.Queued, &stats.Running, &stats.Succeeded, &stats.Failed, &stats.Cancelled); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &stats, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAIJob(row rowScanner) (*model.AIJob, error) {
	var (
		job     model.AIJob
		payload []byte
	)
	err := row.Scan(
		&job.ID,
		&job.Type,
		&job.Status,
		&job.Progress,
		&job.DealID,
		&payload,
		&job.LastError,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	job.InputPayload = payload
	return &job, nil
}
