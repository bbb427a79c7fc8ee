package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/abgdnv/catalog/pkg/web"
	"github.com/go-chi/chi/v5"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RegisterProbes registers the liveness and readiness endpoints.
func (h *Handler) RegisterProbes(r chi.Router, storage Pinger, timeout time.Duration) {
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		if err := storage.Ping(ctx); err != nil {
			h.logger.WarnContext(r.Context(), "Readiness check failed", "error", err)
			web.RespondError(w, h.logger, http.StatusServiceUnavailable, "storage unavailable")
			return
		}
		w.WriteHeader(http.StatusOK)
	})
}
