package model

// OpError records the failure of a single patch operation. OpIndex is the
// operation's position in the PatchSet's ops array.
type OpError struct {
	OpIndex int        `json:"op_index"`
	Entity  EntityKind `json:"entity"`
	Error   string     `json:"error"`
}

// EntityRef identifies one entity touched by an applied operation.
type EntityRef struct {
	Entity EntityKind `json:"entity"`
	ID     string     `json:"id"`
}

// PatchSetApplyResult aggregates the outcome of one apply attempt. It is
// constructed once per attempt and never mutated afterwards; the caller that
// invoked the apply owns it.
//
// Invariants: AppliedOps + FailedOps equals the number of operations in the
// PatchSet, Success is true iff FailedOps is zero, and Errors/UpdatedEntities
// preserve the PatchSet's operation order.
type PatchSetApplyResult struct {
	Success         bool        `json:"success"`
	PatchSetID      string      `json:"patch_set_id"`
	AppliedOps      int         `json:"applied_ops"`
	FailedOps       int         `json:"failed_ops"`
	Errors          []OpError   `json:"errors"`
	CreatedEventIDs []string    `json:"created_event_ids"`
	UpdatedEntities []EntityRef `json:"updated_entities"`
}

// ValidationResult is the outcome of structurally validating a PatchSet.
// Errors accumulate; validation never short-circuits.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}
