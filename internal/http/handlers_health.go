package httpx

import (
	"io"
	"net/http"

	"github.com/hearthhq/dealdesk/internal/core"
)

const healthResponse = `{"status":"ok"}`

// healthHandler returns a simple 200 OK status for liveness checks.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.WriteString(w, healthResponse); err != nil {
		// Nothing more to do if the client connection is gone.
		return
	}
}

// readyHandler reports readiness, including cache connectivity when configured.
func readyHandler(cache core.CacheRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cache != nil {
			if err := cache.Health(r.Context()); err != nil {
				WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
					"cache":  err.Error(),
				})
				return
			}
		}
		healthHandler(w, r)
	}
}
