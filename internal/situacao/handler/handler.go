package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"escriba/internal/situacao/models"
	"escriba/pkg/pagination"
	"escriba/pkg/platform/httputil"
)

// BasePath is where the situação routes are mounted under the API prefix.
const BasePath = "/situacoes"

// Service defines the situação operations the handler needs.
type Service interface {
	Create(ctx context.Context, req *models.CreateSituacaoRequest) (*models.SituacaoResponse, error)
	Update(ctx context.Context, id string, req *models.UpdateSituacaoRequest) (*models.SituacaoResponse, error)
	FindByID(ctx context.Context, id string) (*models.SituacaoResponse, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, req pagination.Request) (pagination.Page[models.SituacaoSummary], error)
}

// Handler serves the situação endpoints.
type Handler struct {
	logger    *slog.Logger
	situacoes Service
	apiPrefix string
}

// New creates a Handler. apiPrefix is prepended to Location headers.
func New(situacoes Service, logger *slog.Logger, apiPrefix string) *Handler {
	return &Handler{logger: logger, situacoes: situacoes, apiPrefix: apiPrefix}
}

// Register mounts the routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Route(BasePath, func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.CreateSituacaoRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, err, "invalid create situacao request")
		return
	}
	resp, err := h.situacoes.Create(ctx, &req)
	if err != nil {
		h.writeError(ctx, w, err, "failed to create situacao")
		return
	}
	w.Header().Set("Location", h.apiPrefix+BasePath+"/"+resp.ID)
	httputil.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, err := pagination.FromQuery(r.URL.Query())
	if err != nil {
		h.writeError(ctx, w, err, "invalid page request")
		return
	}
	resp, err := h.situacoes.List(ctx, page)
	if err != nil {
		h.writeError(ctx, w, err, "failed to list situacoes")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := h.situacoes.FindByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(ctx, w, err, "failed to get situacao")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.UpdateSituacaoRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, err, "invalid update situacao request")
		return
	}
	resp, err := h.situacoes.Update(ctx, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.writeError(ctx, w, err, "failed to update situacao")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.situacoes.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		h.writeError(ctx, w, err, "failed to delete situacao")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	httputil.LogAndWriteError(ctx, h.logger, w, err, msg)
}
