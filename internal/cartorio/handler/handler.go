package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"escriba/internal/cartorio/models"
	dErrors "escriba/pkg/domain-errors"
	"escriba/pkg/pagination"
	"escriba/pkg/platform/httputil"
)

const BasePath = "/cartorios"

// Service defines the cartório operations the handler needs.
type Service interface {
	Create(ctx context.Context, req *models.CreateCartorioRequest) (*models.CartorioResponse, error)
	Update(ctx context.Context, id int, req *models.UpdateCartorioRequest) (*models.CartorioResponse, error)
	ChangeSituacao(ctx context.Context, id int, req *models.ReferenceRequest) (*models.CartorioResponse, error)
	AddAtribuicao(ctx context.Context, id int, req *models.ReferenceRequest) (*models.CartorioResponse, error)
	RemoveAtribuicao(ctx context.Context, id int, req *models.ReferenceRequest) (*models.CartorioResponse, error)
	FindByID(ctx context.Context, id int) (*models.CartorioResponse, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, req pagination.Request) (pagination.Page[models.CartorioSummary], error)
}

type Handler struct {
	logger    *slog.Logger
	cartorios Service
	apiPrefix string
}

func New(cartorios Service, logger *slog.Logger, apiPrefix string) *Handler {
	return &Handler{logger: logger, cartorios: cartorios, apiPrefix: apiPrefix}
}

func (h *Handler) Register(r chi.Router) {
	r.Route(BasePath, func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleUpdate)
		r.Put("/{id}/situacao", h.handleReference("change cartorio situacao", h.cartorios.ChangeSituacao))
		r.Put("/{id}/atribuicoes/add", h.handleReference("add cartorio atribuicao", h.cartorios.AddAtribuicao))
		r.Put("/{id}/atribuicoes/remove", h.handleReference("remove cartorio atribuicao", h.cartorios.RemoveAtribuicao))
		r.Delete("/{id}", h.handleDelete)
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.CreateCartorioRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.LogAndWriteError(ctx, h.logger, w, err, "invalid create cartorio request")
		return
	}
	resp, err := h.cartorios.Create(ctx, &req)
	if err != nil {
		httputil.LogAndWriteError(ctx, h.logger, w, err, "failed to create cartorio")
		return
	}
	w.Header().Set("Location", h.apiPrefix+BasePath+"/"+strconv.Itoa(resp.ID))
	httputil.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, err := pagination.FromQuery(r.URL.Query())
	if err != nil {
		httputil.LogAndWriteError(ctx, h.logger, w, err, "invalid page request")
		return
	}
	resp, err := h.cartorios.List(ctx, page)
	if err != nil {
		httputil.LogAndWriteError(ctx, h.logger, w, err, "failed to list cartorios")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		httputil.LogAndWriteError(ctx, h.logger, w, err, "invalid cartorio id")
		return
	}
	resp, err := h.cartorios.FindByID(ctx, id)
	if err != nil {
		httputil.LogAndWriteError(ctx, h.logger, w, err, "failed to get cartorio")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		httputil.LogAndWriteError(ctx, h.logger, w, err, "invalid cartorio id")
		return
	}
	var req models.UpdateCartorioRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.LogAndWriteError(ctx, h.logger, w, err, "invalid update cartorio request")
		return
	}
	resp, err := h.cartorios.Update(ctx, id, &req)
	if err != nil {
		httputil.LogAndWriteError(ctx, h.logger, w, err, "failed to update cartorio")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

type referenceOp func(ctx context.Context, id int, req *models.ReferenceRequest) (*models.CartorioResponse, error)

// handleReference serves the link endpoints, which all take {"id": "..."}.
func (h *Handler) handleReference(action string, op referenceOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r)
		if err != nil {
			httputil.LogAndWriteError(ctx, h.logger, w, err, "invalid cartorio id")
			return
		}
		var req models.ReferenceRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.LogAndWriteError(ctx, h.logger, w, err, "invalid "+action+" request")
			return
		}
		resp, err := op(ctx, id, &req)
		if err != nil {
			httputil.LogAndWriteError(ctx, h.logger, w, err, "failed to "+action)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, resp)
	}
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		httputil.LogAndWriteError(ctx, h.logger, w, err, "invalid cartorio id")
		return
	}
	if err := h.cartorios.Delete(ctx, id); err != nil {
		httputil.LogAndWriteError(ctx, h.logger, w, err, "failed to delete cartorio")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "id must be a positive integer")
	}
	return id, nil
}
