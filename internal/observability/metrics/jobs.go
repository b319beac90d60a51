// Package metrics emits standardised pipeline metrics over a StatsD sink.
package metrics

import (
	"strconv"
	"time"

	obserrors "github.com/hearthhq/dealdesk/internal/observability/errors"
	"github.com/hearthhq/dealdesk/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// JobTransitionMetric captures details about a job lifecycle transition.
type JobTransitionMetric struct {
	JobType string
	From    string
	To      string
	Err     error
}

// EmitJobTransition emits standardised job lifecycle metrics.
func EmitJobTransition(sink statsd.Sink, in JobTransitionMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"job_type": in.JobType,
		"to":       in.To,
	}
	if in.From != "" {
		tags["from"] = in.From
	}
	if in.Err != nil {
		tags["result"] = ResultError
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	} else {
		tags["result"] = ResultSuccess
	}

	sink.Count("job.transition", 1, tags)
}

// PatchApplyMetric captures the outcome of one PatchSet apply attempt.
type PatchApplyMetric struct {
	AppliedOps int
	FailedOps  int
	Confidence string
	Duration   time.Duration
}

// EmitPatchApply emits counters and a timer for one apply attempt.
func EmitPatchApply(sink statsd.Sink, in PatchApplyMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"confidence": in.Confidence,
		"clean":      strconv.FormatBool(in.FailedOps == 0),
	}

	sink.Count("patchset.apply", 1, tags)
	sink.Count("patchset.ops.applied", int64(in.AppliedOps), CloneTags(tags))
	sink.Count("patchset.ops.failed", int64(in.FailedOps), CloneTags(tags))

	if in.Duration > 0 {
		sink.Timing("patchset.apply.duration", in.Duration, CloneTags(tags))
	}
}

// CloneTags creates a shallow copy of a tag map, filtering out empty maps.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
