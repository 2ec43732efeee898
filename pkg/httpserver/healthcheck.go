package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/activeform/pkg/logger"
)

// Check reports whether a dependency is ready.
type Check func(ctx context.Context) error

// HealthHandler answers liveness probes with "ALIVE" when no checks are
// given, and readiness probes with "READY" or 503 "NOT_READY" otherwise.
func HealthHandler(log *slog.Logger, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if len(checks) == 0 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ALIVE"))
			return
		}
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.WarnContext(r.Context(), "readiness check failed", logger.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("NOT_READY"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	}
}
