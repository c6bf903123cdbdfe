package service

import (
	"context"
	"errors"
	"time"

	"escriba/internal/atribuicao/models"
	dErrors "escriba/pkg/domain-errors"
	"escriba/pkg/pagination"
	audit "escriba/pkg/platform/audit"
	"escriba/pkg/platform/sentinel"
	pstrings "escriba/pkg/platform/strings"
)

func (s *Service) Create(ctx context.Context, req *models.CreateAtribuicaoRequest) (*models.AtribuicaoResponse, error) {
	defer s.metrics.ObserveOperation("create", time.Now())

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	atribuicao, err := models.NewAtribuicao(models.AtribuicaoConfig{
		ID:       req.ID,
		Nome:     req.Nome,
		Situacao: req.Situacao,
	})
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		_, err := s.store.FindByID(txCtx, atribuicao.ID)
		switch {
		case err == nil:
			return dErrors.New(dErrors.CodeConflict, "record already registered")
		case !errors.Is(err, sentinel.ErrNotFound):
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load atribuicao")
		}
		if err := s.ensureNameAvailable(txCtx, atribuicao.Nome); err != nil {
			return err
		}
		return s.write(txCtx, s.store.Create, atribuicao, "failed to create atribuicao")
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, atribuicao.ID, audit.ActionCreated)
	s.metrics.IncrementMutation("create")
	return models.ToResponse(atribuicao), nil
}

// Update renames an atribuição. The active flag is left as stored.
func (s *Service) Update(ctx context.Context, id string, req *models.UpdateAtribuicaoRequest) (*models.AtribuicaoResponse, error) {
	defer s.metrics.ObserveOperation("update", time.Now())

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var updated *models.Atribuicao
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.get(txCtx, id)
		if err != nil {
			return err
		}
		if pstrings.FoldKey(current.Nome) != pstrings.FoldKey(req.Nome) {
			if err := s.ensureNameAvailable(txCtx, req.Nome); err != nil {
				return err
			}
		}
		if updated, err = current.Rename(req.Nome); err != nil {
			return err
		}
		return s.write(txCtx, s.store.Update, updated, "failed to update atribuicao")
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, updated.ID, audit.ActionUpdated)
	s.metrics.IncrementMutation("update")
	return models.ToResponse(updated), nil
}

// ChangeSituacao activates or deactivates an atribuição. Cartórios already
// linked to it keep the link.
func (s *Service) ChangeSituacao(ctx context.Context, id string, active bool) (*models.AtribuicaoResponse, error) {
	defer s.metrics.ObserveOperation("change_situacao", time.Now())

	var changed *models.Atribuicao
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.get(txCtx, id)
		if err != nil {
			return err
		}
		if active {
			current.Activate()
		} else {
			current.Deactivate()
		}
		changed = current
		return s.write(txCtx, s.store.Update, current, "failed to change atribuicao situacao")
	})
	if err != nil {
		return nil, err
	}

	action := audit.ActionDeactivated
	if active {
		action = audit.ActionActivated
	}
	s.emit(ctx, changed.ID, action)
	s.metrics.IncrementSituacaoChange(active)
	return models.ToResponse(changed), nil
}

func (s *Service) FindByID(ctx context.Context, id string) (*models.AtribuicaoResponse, error) {
	atribuicao, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return models.ToResponse(atribuicao), nil
}

// Get returns the entity for reference resolution.
func (s *Service) Get(ctx context.Context, id string) (*models.Atribuicao, error) {
	return s.get(ctx, id)
}

// Delete removes an atribuição. A store refusal other than not-found is
// returned unclassified.
func (s *Service) Delete(ctx context.Context, id string) error {
	defer s.metrics.ObserveOperation("delete", time.Now())

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.get(txCtx, id); err != nil {
			return err
		}
		err := s.store.Delete(txCtx, id)
		if errors.Is(err, sentinel.ErrNotFound) {
			return notFound(id)
		}
		return err
	})
	if err != nil {
		return err
	}

	s.emit(ctx, id, audit.ActionDeleted)
	s.metrics.IncrementMutation("delete")
	return nil
}

func (s *Service) List(ctx context.Context, req pagination.Request) (pagination.Page[models.AtribuicaoSummary], error) {
	items, total, err := s.store.List(ctx, req)
	if err != nil {
		return pagination.Page[models.AtribuicaoSummary]{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list atribuicoes")
	}
	content := make([]models.AtribuicaoSummary, 0, len(items))
	for _, it := range items {
		content = append(content, models.ToSummary(it))
	}
	return pagination.NewPage(content, req, total), nil
}

// ListActive returns every active atribuição, the ones a cartório may link.
func (s *Service) ListActive(ctx context.Context) ([]*models.AtribuicaoResponse, error) {
	items, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list active atribuicoes")
	}
	out := make([]*models.AtribuicaoResponse, 0, len(items))
	for _, it := range items {
		out = append(out, models.ToResponse(it))
	}
	return out, nil
}

func (s *Service) get(ctx context.Context, id string) (*models.Atribuicao, error) {
	atribuicao, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, notFound(id)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load atribuicao")
	}
	return atribuicao, nil
}

func (s *Service) ensureNameAvailable(ctx context.Context, nome string) error {
	owner, err := s.store.FindByNome(ctx, nome)
	switch {
	case err == nil:
		return dErrors.New(dErrors.CodeConflict, "name already used by record "+owner.ID)
	case errors.Is(err, sentinel.ErrNotFound):
		return nil
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check atribuicao name")
	}
}

func (s *Service) write(ctx context.Context, fn func(context.Context, *models.Atribuicao) error, a *models.Atribuicao, msg string) error {
	err := fn(ctx, a)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrNotFound):
		return notFound(a.ID)
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.New(dErrors.CodeConflict, "record already registered")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}

func notFound(id string) error {
	return dErrors.New(dErrors.CodeNotFound, "atribuicao not found: "+id)
}
