package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"escriba/internal/atribuicao/models"
	dErrors "escriba/pkg/domain-errors"
	"escriba/pkg/pagination"
	"escriba/pkg/platform/httputil"
)

const BasePath = "/atribuicoes"

// Service defines the atribuição operations the handler needs.
type Service interface {
	Create(ctx context.Context, req *models.CreateAtribuicaoRequest) (*models.AtribuicaoResponse, error)
	Update(ctx context.Context, id string, req *models.UpdateAtribuicaoRequest) (*models.AtribuicaoResponse, error)
	ChangeSituacao(ctx context.Context, id string, active bool) (*models.AtribuicaoResponse, error)
	FindByID(ctx context.Context, id string) (*models.AtribuicaoResponse, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, req pagination.Request) (pagination.Page[models.AtribuicaoSummary], error)
	ListActive(ctx context.Context) ([]*models.AtribuicaoResponse, error)
}

type Handler struct {
	logger      *slog.Logger
	atribuicoes Service
	apiPrefix   string
}

func New(atribuicoes Service, logger *slog.Logger, apiPrefix string) *Handler {
	return &Handler{logger: logger, atribuicoes: atribuicoes, apiPrefix: apiPrefix}
}

func (h *Handler) Register(r chi.Router) {
	r.Route(BasePath, func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/ativas", h.handleListActive)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleUpdate)
		r.Patch("/{id}/situacao", h.handleChangeSituacao)
		r.Delete("/{id}", h.handleDelete)
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.CreateAtribuicaoRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.LogAndWriteError(ctx, h.logger, w, err, "invalid create atribuicao request")
		return
	}
	resp, err := h.atribuicoes.Create(ctx, &req)
	if err != nil {
		httputil.LogAndWriteError(ctx, h.logger, w, err, "failed to create atribuicao")
		return
	}
	w.Header().Set("Location", h.apiPrefix+BasePath+"/"+resp.ID)
	httputil.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, err := pagination.FromQuery(r.URL.Query())
	if err != nil {
		httputil.LogAndWriteError(ctx, h.logger, w, err, "invalid page request")
		return
	}
	resp, err := h.atribuicoes.List(ctx, page)
	if err != nil {
		httputil.LogAndWriteError(ctx, h.logger, w, err, "failed to list atribuicoes")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListActive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := h.atribuicoes.ListActive(ctx)
	if err != nil {
		httputil.LogAndWriteError(ctx, h.logger, w, err, "failed to list active atribuicoes")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := h.atribuicoes.FindByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		httputil.LogAndWriteError(ctx, h.logger, w, err, "failed to get atribuicao")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.UpdateAtribuicaoRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.LogAndWriteError(ctx, h.logger, w, err, "invalid update atribuicao request")
		return
	}
	resp, err := h.atribuicoes.Update(ctx, chi.URLParam(r, "id"), &req)
	if err != nil {
		httputil.LogAndWriteError(ctx, h.logger, w, err, "failed to update atribuicao")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// handleChangeSituacao reads the target state from ?situacao=true|false.
func (h *Handler) handleChangeSituacao(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	active, err := strconv.ParseBool(r.URL.Query().Get("situacao"))
	if err != nil {
		httputil.LogAndWriteError(ctx, h.logger, w,
			dErrors.New(dErrors.CodeBadRequest, "situacao must be true or false"),
			"invalid change situacao request")
		return
	}
	resp, err := h.atribuicoes.ChangeSituacao(ctx, chi.URLParam(r, "id"), active)
	if err != nil {
		httputil.LogAndWriteError(ctx, h.logger, w, err, "failed to change atribuicao situacao")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.atribuicoes.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		httputil.LogAndWriteError(ctx, h.logger, w, err, "failed to delete atribuicao")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
