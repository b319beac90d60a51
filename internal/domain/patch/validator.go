// Package patch holds the pure PatchSet rules: structural validation and the
// entity router that maps operations onto backing collections.
package patch

import (
	"fmt"
	"strings"

	"github.com/hearthhq/dealdesk/internal/domain/model"
)

// Validate structurally checks a PatchSet before any I/O. All rule violations
// accumulate into the error list; validation never short-circuits, so the same
// PatchSet always yields the identical error list.
//
// A PatchSet that fails validation must not be applied.
func Validate(ps *model.PatchSet) model.ValidationResult {
	var errs []string

	if ps == nil {
		return model.ValidationResult{Valid: false, Errors: []string{"patch set is required"}}
	}

	if strings.TrimSpace(ps.PatchSetID) == "" {
		errs = append(errs, "patch set ID must not be empty")
	}

	if len(ps.Ops) == 0 {
		errs = append(errs, "patch set must contain at least one operation")
	}

	for i, op := range ps.Ops {
		errs = append(errs, validateOp(i, op)...)
	}

	return model.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

func validateOp(index int, op model.PatchOperation) []string {
	var errs []string

	if !op.Op.Valid() {
		errs = append(errs, fmt.Sprintf("op %d: invalid operation kind %q", index, string(op.Op)))
	}

	if strings.TrimSpace(string(op.Entity)) == "" {
		errs = append(errs, fmt.Sprintf("op %d: entity kind is required", index))
	}

	if (op.Op == model.PatchOpUpdate || op.Op == model.PatchOpDelete) && !hasID(op) {
		errs = append(errs, fmt.Sprintf("op %d: %s operation requires entity ID", index, op.Op))
	}

	if (op.Op == model.PatchOpCreate || op.Op == model.PatchOpUpdate) && len(op.After) == 0 {
		errs = append(errs, fmt.Sprintf("op %d: %s operation requires an 'after' payload", index, op.Op))
	}

	if strings.TrimSpace(op.Rationale) == "" {
		errs = append(errs, fmt.Sprintf("op %d: rationale must not be empty", index))
	}

	return errs
}

func hasID(op model.PatchOperation) bool {
	return op.ID != nil && strings.TrimSpace(*op.ID) != ""
}
