// Package testutil provides testing utilities and helpers for the dealdesk AI action pipeline.
package testutil

import (
	"encoding/json"

	"github.com/hearthhq/dealdesk/internal/domain/model"
)

// JobRequestBuilder provides a fluent interface for building SubmitAIJobRequest objects for testing.
type JobRequestBuilder struct {
	req *model.SubmitAIJobRequest
}

// NewJobRequest creates a new JobRequestBuilder with sensible defaults.
func NewJobRequest() *JobRequestBuilder {
	return &JobRequestBuilder{
		req: &model.SubmitAIJobRequest{
			Type:         model.AIJobTypeDealAnalysis,
			InputPayload: json.RawMessage(`{"deal_id": "deal-123"}`),
		},
	}
}

// WithType sets the job type.
func (b *JobRequestBuilder) WithType(jobType model.AIJobType) *JobRequestBuilder {
	b.req.Type = jobType
	return b
}

// WithDealID sets the deal id.
func (b *JobRequestBuilder) WithDealID(dealID string) *JobRequestBuilder {
	b.req.DealID = &dealID
	return b
}

// WithPayloadString sets the input payload from a string.
func (b *JobRequestBuilder) WithPayloadString(payload string) *JobRequestBuilder {
	b.req.InputPayload = json.RawMessage(payload)
	return b
}

// Build returns the constructed request.
func (b *JobRequestBuilder) Build() *model.SubmitAIJobRequest {
	return b.req
}

// PatchSetBuilder provides a fluent interface for building PatchSet objects for testing.
type PatchSetBuilder struct {
	ps *model.PatchSet
}

// NewPatchSet creates a new PatchSetBuilder with sensible defaults and no operations.
func NewPatchSet() *PatchSetBuilder {
	return &PatchSetBuilder{
		ps: &model.PatchSet{
			PatchSetID: "ps-123",
			ActionID:   "action-123",
			Summary:    "test patch set",
			Confidence: model.ConfidenceHigh,
		},
	}
}

// WithID sets the patch set id.
func (b *PatchSetBuilder) WithID(id string) *PatchSetBuilder {
	b.ps.PatchSetID = id
	return b
}

// WithDealID sets the deal id.
func (b *PatchSetBuilder) WithDealID(dealID string) *PatchSetBuilder {
	b.ps.DealID = &dealID
	return b
}

// WithConfidence sets the confidence ordinal.
func (b *PatchSetBuilder) WithConfidence(c model.Confidence) *PatchSetBuilder {
	b.ps.Confidence = c
	return b
}

// WithCreate appends a create operation for the given entity kind.
func (b *PatchSetBuilder) WithCreate(entity model.EntityKind, after string) *PatchSetBuilder {
	b.ps.Ops = append(b.ps.Ops, model.PatchOperation{
		Op:        model.PatchOpCreate,
		Entity:    entity,
		After:     json.RawMessage(after),
		Rationale: "test create",
	})
	return b
}

// WithUpdate appends an update operation for the given entity.
func (b *PatchSetBuilder) WithUpdate(entity model.EntityKind, id, after string) *PatchSetBuilder {
	b.ps.Ops = append(b.ps.Ops, model.PatchOperation{
		Op:        model.PatchOpUpdate,
		Entity:    entity,
		ID:        &id,
		After:     json.RawMessage(after),
		Rationale: "test update",
	})
	return b
}

// WithDelete appends a delete operation for the given entity.
func (b *PatchSetBuilder) WithDelete(entity model.EntityKind, id string) *PatchSetBuilder {
	b.ps.Ops = append(b.ps.Ops, model.PatchOperation{
		Op:        model.PatchOpDelete,
		Entity:    entity,
		ID:        &id,
		Rationale: "test delete",
	})
	return b
}

// WithPendingEvent appends a declared timeline event.
func (b *PatchSetBuilder) WithPendingEvent(eventType, description string) *PatchSetBuilder {
	b.ps.WillCreateTimelineEvents = append(b.ps.WillCreateTimelineEvents, model.PendingEvent{
		EventType:   eventType,
		Description: description,
	})
	return b
}

// Build returns the constructed PatchSet.
func (b *PatchSetBuilder) Build() *model.PatchSet {
	return b.ps
}
