// Package httptransport wires the public endpoints. Handlers delegate to
// domain services; transport concerns stay here.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	csrfhandler "comptepro/internal/csrf/handler"
	entrhandler "comptepro/internal/entreprise/handler"
	inschandler "comptepro/internal/inscription/handler"
	"comptepro/internal/platform/middleware"
	ratelimitmw "comptepro/internal/ratelimit/middleware"
	"comptepro/pkg/platform/httputil"
	"comptepro/pkg/platform/middleware/metadata"
)

// Deps collects everything the router mounts.
type Deps struct {
	Logger      *slog.Logger
	RateLimit   *ratelimitmw.Middleware
	Entreprise  *entrhandler.Handler
	CSRF        *csrfhandler.Handler
	Inscription *inschandler.Handler
	// Health reports backend health for /healthz. Nil means no backend to
	// check (in-memory deployment).
	Health func(ctx context.Context) error
}

// NewRouter builds the full middleware chain and mounts all endpoints.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(middleware.Logger(deps.Logger))

	// Public form endpoints share one rate-limit budget per client.
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimit.RateLimit)
		deps.Entreprise.Register(r)
		deps.CSRF.Register(r)
		deps.Inscription.Register(r)
	})

	r.Get("/healthz", handleHealth(deps.Health))
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func handleHealth(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable,
					map[string]string{"status": "degraded"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
