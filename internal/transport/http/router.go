// Package httptransport assembles the public HTTP surface: the shared
// middleware chain, the module routes under the API prefix and the health
// endpoint.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"escriba/internal/platform/metrics"
	"escriba/pkg/platform/httputil"
	"escriba/pkg/platform/middleware/metadata"
	"escriba/pkg/platform/middleware/request"
	"escriba/pkg/platform/middleware/requesttime"
	dErrors "escriba/pkg/domain-errors"
)

// APIPrefix is where every module handler is mounted.
const APIPrefix = "/api/v1"

// Module is implemented by the situação, atribuição and cartório handlers.
type Module interface {
	Register(r chi.Router)
}

// Config carries the collaborators of the router. Only Logger is required.
type Config struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Health         *HealthHandler
	RateLimit      func(http.Handler) http.Handler
	RequestTimeout time.Duration
	TrustProxy     bool
	Clock          requesttime.Clock
}

// NewRouter wires the middleware chain and mounts modules under APIPrefix.
// Rate limiting applies to the API routes only, so probes and scrapes are
// never refused.
func NewRouter(cfg Config, modules ...Module) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(metadata.ClientMetadata(cfg.TrustProxy))
	r.Use(requesttime.Middleware(cfg.Clock))
	r.Use(request.Recover(log))
	r.Use(request.Logger(log))
	r.Use(cfg.Metrics.Middleware)
	r.Use(request.Timeout(cfg.RequestTimeout))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusMethodNotAllowed, httputil.ErrorResponse{
			Error:            "method_not_allowed",
			ErrorDescription: "method not allowed",
		})
	})

	if cfg.Health != nil {
		r.Get("/health", cfg.Health.ServeHTTP)
	}

	r.Route(APIPrefix, func(api chi.Router) {
		if cfg.RateLimit != nil {
			api.Use(cfg.RateLimit)
		}
		api.Use(request.RequireJSON)
		for _, m := range modules {
			m.Register(api)
		}
	})
	return r
}
