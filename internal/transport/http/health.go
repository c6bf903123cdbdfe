package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"escriba/internal/platform/metrics"
	"escriba/pkg/platform/httputil"
)

// CheckFunc probes one dependency. A nil return means healthy.
type CheckFunc func(ctx context.Context) error

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthHandler pings the store and any optional dependencies. A failing
// store turns the response into 503; other failures only mark the check.
type HealthHandler struct {
	store    CheckFunc
	optional map[string]CheckFunc
	metrics  *metrics.Metrics
	logger   *slog.Logger
	timeout  time.Duration
}

func NewHealthHandler(store CheckFunc, m *metrics.Metrics, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		store:    store,
		optional: map[string]CheckFunc{},
		metrics:  m,
		logger:   logger,
		timeout:  2 * time.Second,
	}
}

// WithCheck adds a non-critical dependency such as redis or kafka.
func (h *HealthHandler) WithCheck(name string, check CheckFunc) *HealthHandler {
	if check != nil {
		h.optional[name] = check
	}
	return h
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{Status: "ok", Checks: map[string]string{}}
	status := http.StatusOK

	storeUp := h.store == nil || h.probe(ctx, "store", h.store)
	h.metrics.SetStoreUp(storeUp)
	resp.Checks["store"] = upDown(storeUp)
	if !storeUp {
		resp.Status = "unavailable"
		status = http.StatusServiceUnavailable
	}

	names := make([]string, 0, len(h.optional))
	for name := range h.optional {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		up := h.probe(ctx, name, h.optional[name])
		resp.Checks[name] = upDown(up)
		if !up && resp.Status == "ok" {
			resp.Status = "degraded"
		}
	}

	httputil.WriteJSON(w, status, resp)
}

func (h *HealthHandler) probe(ctx context.Context, name string, check CheckFunc) bool {
	if err := check(ctx); err != nil {
		h.logger.WarnContext(ctx, "health check failed", "check", name, "error", err)
		return false
	}
	return true
}

func upDown(up bool) string {
	if up {
		return "up"
	}
	return "down"
}
