// Package job holds the assistant-job lifecycle rules: the status transition
// table and pure helpers over job collections.
package job

import (
	"github.com/hearthhq/dealdesk/internal/domain/model"
)

// transitions is the closed set of legal status transitions. Terminal statuses
// (succeeded, failed, cancelled) have no outgoing edges.
var transitions = map[model.AIJobStatus]map[model.AIJobStatus]struct{}{
	model.AIJobStatusQueued: {
		model.AIJobStatusRunning:   {},
		model.AIJobStatusCancelled: {},
	},
	model.AIJobStatusRunning: {
		model.AIJobStatusSucceeded: {},
		model.AIJobStatusFailed:    {},
		model.AIJobStatusCancelled: {},
	},
}

// CanTransition reports whether moving a job from one status to another is legal.
func CanTransition(from, to model.AIJobStatus) bool {
	targets, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}

// Cancellable reports whether a job in the given status may still be cancelled.
func Cancellable(status model.AIJobStatus) bool {
	return CanTransition(status, model.AIJobStatusCancelled)
}

// SelectActive returns the single running job from the collection, or nil when
// no job is running. Queued jobs are pending but not active.
func SelectActive(jobs []*model.AIJob) *model.AIJob {
	for _, j := range jobs {
		if j != nil && j.Status == model.AIJobStatusRunning {
			return j
		}
	}
	return nil
}

// CountPending returns the number of jobs that still occupy the runner
// (status queued or running).
func CountPending(jobs []*model.AIJob) int {
	n := 0
	for _, j := range jobs {
		if j != nil && j.Status.Pending() {
			n++
		}
	}
	return n
}
