package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hearthhq/dealdesk/internal/core"
	"github.com/hearthhq/dealdesk/internal/domain/model"
	"github.com/hearthhq/dealdesk/internal/service"
)

const defaultApplyLockTTL = 30 * time.Second

// PatchSetHandlers provides HTTP handlers for PatchSet validation and application.
type PatchSetHandlers struct {
	Svc *service.PatchService
	// Cache guards against concurrent applies of the same PatchSet id.
	// Optional: when nil, apply proceeds without the lock.
	Cache   core.CacheRepository
	LockTTL time.Duration
	Logger  *slog.Logger
}

// Validate handles HTTP requests to structurally validate a PatchSet without
// touching any entity. Validation failures are returned in the body, not as
// an HTTP error: the request itself succeeded.
func (h *PatchSetHandlers) Validate(w http.ResponseWriter, r *http.Request) {
	var ps model.PatchSet
	if !DecodeJSON(w, r, &ps) {
		return
	}

	WriteJSON(w, http.StatusOK, h.Svc.Validate(&ps))
}

// Apply handles HTTP requests to apply a PatchSet. Operations are applied
// sequentially and non-atomically; the result reports per-operation failures.
// A short-lived lock rejects a second apply of the same PatchSet id while one
// is already in flight.
func (h *PatchSetHandlers) Apply(w http.ResponseWriter, r *http.Request) {
	var ps model.PatchSet
	if !DecodeJSON(w, r, &ps) {
		return
	}

	release, ok := h.acquireApplyLock(w, r, ps.PatchSetID)
	if !ok {
		return
	}
	defer release()

	result, err := h.Svc.Apply(r.Context(), &ps)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// acquireApplyLock takes the per-PatchSet apply lock. It writes the conflict
// response itself when the lock is held. Lock errors are treated as lock
// unavailable rather than failing the apply.
func (h *PatchSetHandlers) acquireApplyLock(
	w http.ResponseWriter,
	r *http.Request,
	patchSetID string,
) (func(), bool) {
	if h.Cache == nil || patchSetID == "" {
		return func() {}, true
	}

	ttl := h.LockTTL
	if ttl <= 0 {
		ttl = defaultApplyLockTTL
	}

	key := "apply:lock:" + patchSetID
	acquired, err := h.Cache.SetIfNotExists(r.Context(), key, []byte("1"), ttl)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("apply lock unavailable, proceeding without it",
				slog.String("patch_set_id", patchSetID), slog.Any("error", err))
		}
		return func() {}, true
	}
	if !acquired {
		WriteError(w, ErrorParams{
			Code:    http.StatusConflict,
			ErrCode: "apply_in_progress",
			Err:     errors.New("an apply for this patch set is already in progress"),
		})
		return nil, false
	}

	return func() {
		if _, err := h.Cache.Delete(r.Context(), key); err != nil && h.Logger != nil {
			h.Logger.Warn("releasing apply lock failed",
				slog.String("patch_set_id", patchSetID), slog.Any("error", err))
		}
	}, true
}
