// Package model defines the core data types and structures used throughout the dealdesk AI action pipeline.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// AIJobType represents the kind of work an assistant job performs.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type AIJobType string

// AIJobStatus represents the current lifecycle status of an assistant job.
type AIJobStatus string

const (
	// AIJobTypeDealAnalysis represents an end-to-end deal analysis job.
	AIJobTypeDealAnalysis AIJobType = "deal_analysis"
	// AIJobTypeDocumentExtract represents a document data-extraction job.
	AIJobTypeDocumentExtract AIJobType = "document_extract"
	// AIJobTypeCallSummary represents a call transcription and summary job.
	AIJobTypeCallSummary AIJobType = "call_summary"
	// AIJobTypeFollowUpDraft represents a follow-up drafting job.
	AIJobTypeFollowUpDraft AIJobType = "follow_up_draft"

	// AIJobStatusQueued indicates a job is waiting to be picked up by the runner.
	AIJobStatusQueued AIJobStatus = "queued"
	// AIJobStatusRunning indicates a job is currently being processed.
	AIJobStatusRunning AIJobStatus = "running"
	// AIJobStatusSucceeded indicates a job finished and produced a PatchSet.
	AIJobStatusSucceeded AIJobStatus = "succeeded"
	// AIJobStatusFailed indicates a job failed to complete.
	AIJobStatusFailed AIJobStatus = "failed"
	// AIJobStatusCancelled indicates a job was cancelled before completion.
	AIJobStatusCancelled AIJobStatus = "cancelled"
)

// UnmarshalText implements encoding.TextUnmarshaler for AIJobType to allow env parsing.
func (t *AIJobType) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	jt := AIJobType(v)
	if jt.Valid() {
		*t = jt
		return nil
	}
	return fmt.Errorf("invalid AIJobType: %q", v)
}

// Valid returns true if the AIJobType is valid.
func (t AIJobType) Valid() bool {
	return t == AIJobTypeDealAnalysis || t == AIJobTypeDocumentExtract ||
		t == AIJobTypeCallSummary || t == AIJobTypeFollowUpDraft
}

// Valid returns true if the AIJobStatus is valid.
func (s AIJobStatus) Valid() bool {
	return s == AIJobStatusQueued || s == AIJobStatusRunning || s == AIJobStatusSucceeded ||
		s == AIJobStatusFailed || s == AIJobStatusCancelled
}

// Terminal returns true if the status is a sink: once reached it never changes.
func (s AIJobStatus) Terminal() bool {
	return s == AIJobStatusSucceeded || s == AIJobStatusFailed || s == AIJobStatusCancelled
}

// Pending returns true if the job still occupies the runner (queued or running).
func (s AIJobStatus) Pending() bool {
	return s == AIJobStatusQueued || s == AIJobStatusRunning
}

// AIJob represents one asynchronous unit of assistant work and its lifecycle metadata.
// The pipeline owns job metadata only; it never owns the entities a job's PatchSet touches.
type AIJob struct {
	ID           string          `json:"id"                 db:"id"`
	Type         AIJobType       `json:"type"               db:"type"`
	Status       AIJobStatus     `json:"status"             db:"status"`
	Progress     int             `json:"progress"           db:"progress"`
	DealID       *string         `json:"deal_id,omitempty"  db:"deal_id"`
	InputPayload json.RawMessage `json:"input_payload"      db:"input_payload"`
	LastError    *string         `json:"last_error,omitempty" db:"last_error"`
	CreatedAt    time.Time       `json:"created_at"         db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"         db:"updated_at"`
}

// SubmitAIJobRequest represents a request to submit a new assistant job.
type SubmitAIJobRequest struct {
	Type         AIJobType       `json:"type"`
	DealID       *string         `json:"deal_id,omitempty"`
	InputPayload json.RawMessage `json:"input_payload"`
}

// Validate validates the SubmitAIJobRequest fields.
func (r *SubmitAIJobRequest) Validate() error {
	if !r.Type.Valid() {
		return errors.New("invalid job type")
	}
	if len(r.InputPayload) == 0 {
		return errors.New("input payload is required")
	}
	return nil
}

// AIJobStats represents counts of jobs per lifecycle status.
type AIJobStats struct {
	Queued    int `json:"queued"`
	Running   int `json:"running"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Cancelled int `json:"cancelled"`
}

// AIJobListOptions filters job listings.
type AIJobListOptions struct {
	Status *AIJobStatus
	DealID *string
	Limit  int
	Offset int
}
