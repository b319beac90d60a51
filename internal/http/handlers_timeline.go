package httpx

import (
	"errors"
	"net/http"

	"github.com/hearthhq/dealdesk/internal/core"
	"github.com/hearthhq/dealdesk/internal/domain/model"
)

const (
	defaultTimelinePageSize = 100
	maxTimelinePageSize     = 500
)

// TimelineHandlers provides HTTP handlers for reading a deal's timeline.
type TimelineHandlers struct {
	Repo core.TimelineRepository
}

// ListByDeal handles HTTP requests to list timeline events for a deal,
// newest first, optionally filtered by event type.
func (h *TimelineHandlers) ListByDeal(w http.ResponseWriter, r *http.Request) {
	dealID := r.PathValue("id")
	if dealID == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("deal id is required")},
		)
		return
	}

	opts := model.TimelineListOptions{DealID: dealID}
	opts.Limit, opts.Offset = ParseLimitOffset(r, defaultTimelinePageSize, maxTimelinePageSize)
	if v := r.URL.Query().Get("event_type"); v != "" {
		opts.EventType = &v
	}

	events, err := h.Repo.ListByDeal(r.Context(), opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}
