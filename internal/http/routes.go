package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/hearthhq/dealdesk/internal/core"
	"github.com/hearthhq/dealdesk/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Jobs     *service.JobService
	Patches  *service.PatchService
	Timeline core.TimelineRepository
	// Cache backs the apply lock and readiness probe. Optional.
	Cache        core.CacheRepository
	ApplyLockTTL time.Duration
	Logger       *slog.Logger
}

// NewRouter creates and configures the HTTP router for the pipeline API.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	jobHandlers := &JobHandlers{Svc: services.Jobs, Logger: services.Logger}
	patchHandlers := &PatchSetHandlers{
		Svc:     services.Patches,
		Cache:   services.Cache,
		LockTTL: services.ApplyLockTTL,
		Logger:  services.Logger,
	}
	timelineHandlers := &TimelineHandlers{Repo: services.Timeline}

	registerJobRoutes(mux, jobHandlers)
	registerPatchSetRoutes(mux, patchHandlers)
	mux.Handle("GET /api/deals/{id}/timeline", http.HandlerFunc(timelineHandlers.ListByDeal))

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("GET /readyz", readyHandler(services.Cache))

	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var handler http.Handler = mux
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}

func registerJobRoutes(mux *http.ServeMux, h *JobHandlers) {
	mux.Handle("POST /api/jobs", http.HandlerFunc(h.Submit))
	mux.Handle("GET /api/jobs", http.HandlerFunc(h.List))
	mux.Handle("GET /api/jobs/stats", http.HandlerFunc(h.Stats))
	mux.Handle("GET /api/jobs/{id}", http.HandlerFunc(h.Get))
	mux.Handle("POST /api/jobs/{id}/cancel", http.HandlerFunc(h.Cancel))
	mux.Handle("GET /api/jobs/{id}/observe", http.HandlerFunc(h.Observe))
	// Runner-facing callback; terminal statuses win over anything it reports late.
	mux.Handle("POST /api/runner/jobs/{id}/status", http.HandlerFunc(h.RunnerUpdate))
}

func registerPatchSetRoutes(mux *http.ServeMux, h *PatchSetHandlers) {
	mux.Handle("POST /api/patchsets/validate", http.HandlerFunc(h.Validate))
	mux.Handle("POST /api/patchsets/apply", http.HandlerFunc(h.Apply))
}
