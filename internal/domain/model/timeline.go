package model

import (
	"encoding/json"
	"time"
)

// EventTypeAIActionApplied is the summary event written after a PatchSet apply
// that changed at least one entity.
const EventTypeAIActionApplied = "ai_action_applied"

// TimelineEvent is one record in a deal's activity feed. Events written by the
// audit emitter carry the PatchSet and action ids for traceability.
type TimelineEvent struct {
	ID          string          `json:"id"                     db:"id"`
	DealID      string          `json:"deal_id"                db:"deal_id"`
	EventType   string          `json:"event_type"             db:"event_type"`
	Description string          `json:"description"            db:"description"`
	Payload     json.RawMessage `json:"payload,omitempty"      db:"payload"`
	PatchSetID  *string         `json:"patch_set_id,omitempty" db:"patch_set_id"`
	ActionID    *string         `json:"action_id,omitempty"    db:"action_id"`
	CreatedAt   time.Time       `json:"created_at"             db:"created_at"`
}

// AppendTimelineEventRequest carries the fields for a new timeline event.
type AppendTimelineEventRequest struct {
	DealID      string          `json:"deal_id"`
	EventType   string          `json:"event_type"`
	Description string          `json:"description"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	PatchSetID  *string         `json:"patch_set_id,omitempty"`
	ActionID    *string         `json:"action_id,omitempty"`
}

// TimelineListOptions filters timeline listings for a deal.
type TimelineListOptions struct {
	DealID    string
	EventType *string
	Limit     int
	Offset    int
}
