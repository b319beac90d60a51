package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/hearthhq/dealdesk/internal/core"
	"github.com/hearthhq/dealdesk/internal/domain/model"
	"github.com/hearthhq/dealdesk/internal/domain/patch"
)

// AuditEmitterOptions groups dependencies for AuditEmitter.
type AuditEmitterOptions struct {
	Timeline core.TimelineRepository // Required: event destination
	Logger   *slog.Logger            // Optional: structured logger
}

// AuditEmitter writes the timeline records for an applied PatchSet: one event
// per declared PendingEvent, then exactly one ai_action_applied summary event.
//
// Every write is best-effort. A failed event write is logged and skipped; it
// never fails the apply call and never blocks subsequent writes. The only
// signal a caller gets is that CreatedEventIDs comes back shorter than the
// declared event list.
type AuditEmitter struct {
	timeline core.TimelineRepository
	logger   *slog.Logger
}

// NewAuditEmitter constructs a new AuditEmitter.
func NewAuditEmitter(opts AuditEmitterOptions) *AuditEmitter {
	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "audit_emitter")
	}
	return &AuditEmitter{
		timeline: opts.Timeline,
		logger:   logger,
	}
}

// Emit writes the declared timeline events and the summary event for one apply
// attempt, returning the ids of the events that were actually created. The
// caller guards the precondition (at least one applied op and a deal id).
func (e *AuditEmitter) Emit(ctx context.Context, ps *model.PatchSet, result *model.PatchSetApplyResult) []string {
	created := []string{}
	if ps.DealID == nil {
		return created
	}
	dealID := *ps.DealID

	for i, pending := range ps.WillCreateTimelineEvents {
		event, err := e.timeline.Append(ctx, &model.AppendTimelineEventRequest{
			DealID:      dealID,
			EventType:   pending.EventType,
			Description: pending.Description,
			Payload:     pending.Payload,
			PatchSetID:  &ps.PatchSetID,
			ActionID:    &ps.ActionID,
		})
		if err != nil {
			if e.logger != nil {
				e.logger.WarnContext(ctx, "timeline event write failed, skipping",
					"patch_set_id", ps.PatchSetID,
					"event_index", i,
					"event_type", pending.EventType,
					"error", err,
				)
			}
			continue
		}
		created = append(created, event.ID)
	}

	if id := e.emitSummary(ctx, ps, result); id != "" {
		created = append(created, id)
	}

	return created
}

// summaryPayload is the ai_action_applied event body.
type summaryPayload struct {
	AppliedOps int      `json:"applied_ops"`
	FailedOps  int      `json:"failed_ops"`
	Confidence string   `json:"confidence"`
	Touched    []string `json:"touched,omitempty"`
}

func (e *AuditEmitter) emitSummary(ctx context.Context, ps *model.PatchSet, result *model.PatchSetApplyResult) string {
	payload, err := json.Marshal(summaryPayload{
		AppliedOps: result.AppliedOps,
		FailedOps:  result.FailedOps,
		Confidence: string(ps.Confidence),
		Touched:    touchedLabels(ps),
	})
	if err != nil {
		payload = nil
	}

	description := ps.Summary
	if strings.TrimSpace(description) == "" {
		description = fmt.Sprintf("Assistant applied %d change(s)", result.AppliedOps)
	}

	event, err := e.timeline.Append(ctx, &model.AppendTimelineEventRequest{
		DealID:      *ps.DealID,
		EventType:   model.EventTypeAIActionApplied,
		Description: description,
		Payload:     payload,
		PatchSetID:  &ps.PatchSetID,
		ActionID:    &ps.ActionID,
	})
	if err != nil {
		if e.logger != nil {
			e.logger.WarnContext(ctx, "summary event write failed",
				"patch_set_id", ps.PatchSetID,
				"error", err,
			)
		}
		return ""
	}
	return event.ID
}

// touchedLabels derives display labels for the entities a PatchSet writes,
// using each entity handler's JMESPath label expression against the op's
// 'after' payload. Unresolvable labels are omitted.
func touchedLabels(ps *model.PatchSet) []string {
	var labels []string
	for _, op := range ps.Ops {
		if len(op.After) == 0 {
			continue
		}
		handler, err := patch.Resolve(op.Entity)
		if err != nil || handler.LabelExpr == "" {
			continue
		}

		var doc any
		if err := json.Unmarshal(op.After, &doc); err != nil {
			continue
		}
		value, err := jmespath.Search(handler.LabelExpr, doc)
		if err != nil {
			continue
		}
		if label, ok := value.(string); ok && label != "" {
			labels = append(labels, fmt.Sprintf("%s: %s", string(op.Entity), label))
		}
	}
	return labels
}
