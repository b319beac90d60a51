// Package httpx provides HTTP handlers and utilities for the dealdesk AI action pipeline API.
package httpx

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hearthhq/dealdesk/internal/domain/model"
	"github.com/hearthhq/dealdesk/internal/service"
)

// JobHandlers provides HTTP handlers for assistant job operations.
type JobHandlers struct {
	Svc    *service.JobService
	Logger *slog.Logger
}

// Submit handles HTTP requests to submit a new assistant job.
func (h *JobHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.SubmitAIJobRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	job, err := h.Svc.Submit(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, job)
}

// Get handles HTTP requests to fetch a single job by id.
func (h *JobHandlers) Get(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if jobID == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("job id is required")},
		)
		return
	}

	job, err := h.Svc.GetByID(r.Context(), jobID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

const (
	defaultJobPageSize = 50
	maxJobPageSize     = 200
)

// List handles HTTP requests to list jobs, optionally filtered by status or deal.
func (h *JobHandlers) List(w http.ResponseWriter, r *http.Request) {
	opts := &model.AIJobListOptions{}
	opts.Limit, opts.Offset = ParseLimitOffset(r, defaultJobPageSize, maxJobPageSize)

	if v := r.URL.Query().Get("status"); v != "" {
		status := model.AIJobStatus(v)
		if !status.Valid() {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_query",
				Err:     fmt.Errorf("invalid status %q", v),
			})
			return
		}
		opts.Status = &status
	}
	if v := r.URL.Query().Get("deal_id"); v != "" {
		opts.DealID = &v
	}

	jobs, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

// Stats handles HTTP requests to retrieve job counts per lifecycle status.
func (h *JobHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.Stats(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}

// Cancel handles HTTP requests to cancel a queued or running job.
// Cancelling a terminal job is rejected with a conflict.
func (h *JobHandlers) Cancel(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if jobID == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("job id is required")},
		)
		return
	}

	job, err := h.Svc.Cancel(r.Context(), jobID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

// RunnerUpdate handles status callbacks pushed by the assistant runner.
// The snapshot is reconciled into local state; terminal statuses stick.
func (h *JobHandlers) RunnerUpdate(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if jobID == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("job id is required")},
		)
		return
	}

	var snapshot model.AIJob
	if !DecodeJSON(w, r, &snapshot) {
		return
	}
	snapshot.ID = jobID

	job, err := h.Svc.HandleRunnerUpdate(r.Context(), &snapshot)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

// Observe streams job snapshots over server-sent events until the job reaches
// a terminal status or the client disconnects. Each event is one JSON snapshot.
func (h *JobHandlers) Observe(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if jobID == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("job id is required")},
		)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "streaming_unsupported",
			Err:     errors.New("response writer does not support streaming"),
		})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch, stop := h.Svc.Observe(r.Context(), jobID)
	defer stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case snapshot, open := <-ch:
			if !open {
				return
			}
			if err := writeSSEEvent(w, flusher, snapshot); err != nil {
				if h.Logger != nil {
					h.Logger.Debug("observe stream write failed",
						slog.String("job_id", jobID), slog.Any("error", err))
				}
				return
			}
		}
	}
}

func writeSSEEvent(w http.ResponseWriter, flusher http.Flusher, snapshot model.AIJob) error {
	payload, err := encodeJSONLine(snapshot)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
