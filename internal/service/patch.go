// Package service implements the business logic of the dealdesk AI action pipeline.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/hearthhq/dealdesk/internal/core"
	"github.com/hearthhq/dealdesk/internal/domain/model"
	"github.com/hearthhq/dealdesk/internal/domain/patch"
	apperrors "github.com/hearthhq/dealdesk/internal/errors"
	"github.com/hearthhq/dealdesk/internal/observability/metrics"
	"github.com/hearthhq/dealdesk/internal/observability/statsd"
)

// PatchServiceOptions groups dependencies for PatchService.
type PatchServiceOptions struct {
	Store         core.EntityStore           // Required: backing entity store
	Timeline      core.TimelineRepository    // Optional: audit trail destination; no audit without it
	Invalidations core.InvalidationPublisher // Optional: stale-view key fan-out
	Logger        *slog.Logger               // Optional: structured logger
	Metrics       statsd.Sink                // Optional: apply metrics
}

// PatchService validates and applies assistant-proposed PatchSets.
//
// Apply semantics are deliberately non-transactional: operations execute
// sequentially in array order and a failed operation never rolls back earlier
// successes. Later operations may depend on entities created earlier in the
// same batch, so the service never reorders or parallelises them.
//
// The service is stateless per apply call. At-most-one concurrent apply per
// PatchSet id is a caller-side contract (the HTTP layer holds a short NX lock);
// re-applying an already-applied PatchSet is allowed and is not idempotent.
type PatchService struct {
	store         core.EntityStore
	audit         *AuditEmitter
	invalidations core.InvalidationPublisher
	logger        *slog.Logger
	metrics       statsd.Sink
}

// NewPatchService constructs a new PatchService.
func NewPatchService(opts PatchServiceOptions) (*PatchService, error) {
	if opts.Store == nil {
		return nil, errors.New("EntityStore is required")
	}

	var audit *AuditEmitter
	if opts.Timeline != nil {
		audit = NewAuditEmitter(AuditEmitterOptions{
			Timeline: opts.Timeline,
			Logger:   opts.Logger,
		})
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "patch_service")
	}

	return &PatchService{
		store:         opts.Store,
		audit:         audit,
		invalidations: opts.Invalidations,
		logger:        logger,
		metrics:       opts.Metrics,
	}, nil
}

// Validate structurally checks a PatchSet. It performs no I/O and is safe to
// call from any goroutine.
func (s *PatchService) Validate(ps *model.PatchSet) model.ValidationResult {
	return patch.Validate(ps)
}

// Apply executes a PatchSet against the backing entity store and returns the
// aggregated result. Per-operation failures are recorded in the result, never
// raised; the returned error is non-nil only when the PatchSet fails structural
// validation or the call is cut short by context cancellation.
func (s *PatchService) Apply(ctx context.Context, ps *model.PatchSet) (*model.PatchSetApplyResult, error) {
	if validation := patch.Validate(ps); !validation.Valid {
		return nil, apperrors.Validationf(
			"patch set rejected: %s", strings.Join(validation.Errors, "; "))
	}

	start := time.Now()
	result := &model.PatchSetApplyResult{
		PatchSetID:      ps.PatchSetID,
		Errors:          []model.OpError{},
		CreatedEventIDs: []string{},
		UpdatedEntities: []model.EntityRef{},
	}

	for i, op := range ps.Ops {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeCanceled, "apply interrupted")
		}

		id, err := s.applyOp(ctx, op)
		if err != nil {
			result.FailedOps++
			result.Errors = append(result.Errors, model.OpError{
				OpIndex: i,
				Entity:  op.Entity,
				Error:   err.Error(),
			})
			if s.logger != nil {
				s.logger.WarnContext(ctx, "patch operation failed",
					"patch_set_id", ps.PatchSetID,
					"op_index", i,
					"op", string(op.Op),
					"entity", string(op.Entity),
					"error", err,
				)
			}
			continue
		}

		result.AppliedOps++
		if id != "" {
			result.UpdatedEntities = append(result.UpdatedEntities, model.EntityRef{
				Entity: op.Entity,
				ID:     id,
			})
		}
	}

	result.Success = result.FailedOps == 0

	if s.audit != nil && result.AppliedOps > 0 && ps.DealID != nil {
		result.CreatedEventIDs = s.audit.Emit(ctx, ps, result)
	}

	s.signalInvalidation(ctx, ps, result)

	metrics.EmitPatchApply(s.metrics, metrics.PatchApplyMetric{
		AppliedOps: result.AppliedOps,
		FailedOps:  result.FailedOps,
		Confidence: string(ps.Confidence),
		Duration:   time.Since(start),
	})

	if s.logger != nil {
		s.logger.InfoContext(ctx, "patch set applied",
			"patch_set_id", ps.PatchSetID,
			"applied_ops", result.AppliedOps,
			"failed_ops", result.FailedOps,
			"events_created", len(result.CreatedEventIDs),
		)
	}

	return result, nil
}

// applyOp routes one operation to its backing collection and executes it.
// The returned id is the created entity's id for creates, and the targeted
// entity's id for updates and deletes.
func (s *PatchService) applyOp(ctx context.Context, op model.PatchOperation) (string, error) {
	handler, err := patch.Resolve(op.Entity)
	if err != nil {
		return "", err
	}

	switch op.Op {
	case model.PatchOpCreate:
		return s.store.Insert(ctx, handler.Collection, op.After)
	case model.PatchOpUpdate:
		if op.ID == nil {
			return "", apperrors.Validation("update operation requires entity ID")
		}
		return s.store.Update(ctx, handler.Collection, *op.ID, op.After)
	case model.PatchOpDelete:
		if op.ID == nil {
			return "", apperrors.Validation("delete operation requires entity ID")
		}
		if err := s.store.Delete(ctx, handler.Collection, *op.ID); err != nil {
			return "", err
		}
		return *op.ID, nil
	default:
		return "", apperrors.Validationf("invalid operation kind %q", string(op.Op))
	}
}

// signalInvalidation pushes the stale-view keys derived from the result.
// Failures are logged and swallowed: invalidation is advisory and must never
// fail an apply that already changed entities.
func (s *PatchService) signalInvalidation(ctx context.Context, ps *model.PatchSet, result *model.PatchSetApplyResult) {
	if s.invalidations == nil {
		return
	}

	keys := StaleKeys(ps, result)
	if len(keys) == 0 {
		return
	}

	if err := s.invalidations.PublishInvalidation(ctx, keys); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "invalidation publish failed",
			"patch_set_id", ps.PatchSetID,
			"keys", len(keys),
			"error", err,
		)
	}
}
