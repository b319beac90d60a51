package model

import "encoding/json"

// PatchOpKind represents the kind of mutation a patch operation performs.
type PatchOpKind string

const (
	// PatchOpCreate inserts a new entity.
	PatchOpCreate PatchOpKind = "create"
	// PatchOpUpdate applies a partial update to an existing entity.
	PatchOpUpdate PatchOpKind = "update"
	// PatchOpDelete removes an existing entity.
	PatchOpDelete PatchOpKind = "delete"
)

// Valid returns true if the PatchOpKind is one of the three legal kinds.
func (k PatchOpKind) Valid() bool {
	return k == PatchOpCreate || k == PatchOpUpdate || k == PatchOpDelete
}

// EntityKind tags the CRM entity a patch operation targets. The set is closed;
// routing an unlisted kind fails that single operation with an unknown-entity error.
type EntityKind string

const (
	// EntityDeal is a deal in the pipeline.
	EntityDeal EntityKind = "Deal"
	// EntityProperty is a listed or prospective property.
	EntityProperty EntityKind = "Property"
	// EntityLead is an unconverted lead.
	EntityLead EntityKind = "Lead"
	// EntityTask is a to-do attached to a deal or contact.
	EntityTask EntityKind = "Task"
	// EntityContact is a person record.
	EntityContact EntityKind = "Contact"
	// EntityNote is a free-form note.
	EntityNote EntityKind = "Note"
	// EntityDocument is an uploaded document's metadata record.
	EntityDocument EntityKind = "Document"
)

// Confidence is the assistant's ordinal confidence in a proposed PatchSet.
type Confidence string

const (
	// ConfidenceLow marks a PatchSet the assistant is unsure about.
	ConfidenceLow Confidence = "low"
	// ConfidenceMedium marks a PatchSet with moderate support in the source material.
	ConfidenceMedium Confidence = "medium"
	// ConfidenceHigh marks a PatchSet the assistant considers well supported.
	ConfidenceHigh Confidence = "high"
)

// Valid returns true if the Confidence is a known ordinal.
func (c Confidence) Valid() bool {
	return c == ConfidenceLow || c == ConfidenceMedium || c == ConfidenceHigh
}

// PatchOperation is one create/update/delete instruction within a PatchSet.
//
// Field requirements by kind:
//   - create: After required, ID absent (the store assigns one)
//   - update: After and ID required
//   - delete: ID required, After ignored
//
// Rationale is always required; it is the assistant's human-readable justification
// and is surfaced verbatim in review UIs and audit records.
type PatchOperation struct {
	Op        PatchOpKind     `json:"op"`
	Entity    EntityKind      `json:"entity"`
	ID        *string         `json:"id,omitempty"`
	Before    json.RawMessage `json:"before,omitempty"`
	After     json.RawMessage `json:"after,omitempty"`
	Rationale string          `json:"rationale"`
	Source    *string         `json:"source,omitempty"`
}

// PendingEvent declares a timeline event the assistant wants written once the
// PatchSet has been applied. Events are attempted best-effort by the audit emitter.
type PendingEvent struct {
	EventType   string          `json:"event_type"`
	Description string          `json:"description"`
	Payload     json.RawMessage `json:"payload,omitempty"`
}

// PatchSet is a named, versioned batch of proposed entity mutations produced by
// a succeeded assistant job. It is immutable once produced; each apply attempt
// consumes it independently (re-apply is allowed and is not idempotent).
type PatchSet struct {
	PatchSetID               string           `json:"patch_set_id"`
	ActionID                 string           `json:"action_id"`
	DealID                   *string          `json:"deal_id,omitempty"`
	Summary                  string           `json:"summary"`
	Confidence               Confidence       `json:"confidence"`
	Ops                      []PatchOperation `json:"ops"`
	WillCreateTimelineEvents []PendingEvent   `json:"will_create_timeline_events,omitempty"`
}
