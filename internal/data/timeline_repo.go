package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hearthhq/dealdesk/internal/domain/model"
	apperrors "github.com/hearthhq/dealdesk/internal/errors"
)

// TimelineRepo provides database operations for deal activity-feed events.
type TimelineRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewTimelineRepo creates a new TimelineRepo instance.
func NewTimelineRepo(db *sql.DB, tp TimeProvider) *TimelineRepo {
	if tp == nil {
		tp = &RealTimeProvider{}
	}
	return &TimelineRepo{DB: db, timeProvider: tp}
}

const timelineColumns = `
  id,
  deal_id,
  event_type,
  description,
  payload,
  patch_set_id,
  action_id,
  created_at
`

const defaultTimelineListLimit = 100

// Append writes one timeline event and returns the stored record.
func (r *TimelineRepo) Append(ctx context.Context, req *model.AppendTimelineEventRequest) (*model.TimelineEvent, error) {
	if req == nil {
		return nil, errors.New("append timeline event request is required")
	}
	if strings.TrimSpace(req.DealID) == "" {
		return nil, apperrors.ValidationField("deal_id", "deal id is required")
	}
	if strings.TrimSpace(req.EventType) == "" {
		return nil, apperrors.ValidationField("event_type", "event type is required")
	}

	var payload []byte
	if len(req.Payload) > 0 {
		payload = []byte(req.Payload)
	}

	row := r.DB.QueryRowContext(ctx, `
		INSERT INTO timeline_events (id, deal_id, event_type, description, payload, patch_set_id, action_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+timelineColumns,
		uuid.NewString(), req.DealID, req.EventType, req.Description,
		payload, req.PatchSetID, req.ActionID, r.timeProvider.Now().UTC(),
	)

	event, err := scanTimelineEvent(row)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return event, nil
}

// ListByDeal returns a deal's events, newest first.
func (r *TimelineRepo) ListByDeal(ctx context.Context, opts model.TimelineListOptions) ([]*model.TimelineEvent, error) {
	if strings.TrimSpace(opts.DealID) == "" {
		return nil, apperrors.ValidationField("deal_id", "deal id is required")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultTimelineListLimit
	}

	args := []any{opts.DealID}
	query := `SELECT ` + timelineColumns + ` FROM timeline_events WHERE deal_id = $1`
	if opts.EventType != nil {
		args = append(args, *opts.EventType)
		query += fmt.Sprintf(" AND event_type = $%d", len(args))
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

	var events []*model.TimelineEvent
	for rows.Next() {
		event, scanErr := scanTimelineEvent(rows)
		if scanErr != nil {
			return nil, apperrors.MapDBError(scanErr)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return events, nil
}

func scanTimelineEvent(row rowScanner) (*model.TimelineEvent, error) {
	var (
		event   model.TimelineEvent
		payload []byte
	)
	err := row.Scan(
		&event.ID,
		&event.DealID,
		&event.EventType,
		&event.Description,
		&payload,
		&event.PatchSetID,
		&event.ActionID,
		&event.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	event.Payload = payload
	return &event, nil
}
