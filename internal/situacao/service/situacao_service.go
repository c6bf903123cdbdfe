package service

import (
	"context"
	"errors"
	"time"

	"escriba/internal/situacao/models"
	dErrors "escriba/pkg/domain-errors"
	"escriba/pkg/pagination"
	audit "escriba/pkg/platform/audit"
	"escriba/pkg/platform/sentinel"
	pstrings "escriba/pkg/platform/strings"
)

// Create registers a new situação. The id check runs before the name check.
func (s *Service) Create(ctx context.Context, req *models.CreateSituacaoRequest) (*models.SituacaoResponse, error) {
	defer s.metrics.ObserveOperation("create", time.Now())

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	situacao, err := models.NewSituacao(req.ID, req.Nome)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.store.FindByID(txCtx, situacao.ID); err == nil {
			return dErrors.New(dErrors.CodeConflict, "record already registered")
		} else if !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load situacao")
		}
		if err := s.ensureNameAvailable(txCtx, situacao.Nome); err != nil {
			return err
		}
		if err := s.store.Create(txCtx, situacao); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return dErrors.New(dErrors.CodeConflict, "record already registered")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create situacao")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, situacao.ID, audit.ActionCreated)
	s.metrics.IncrementMutation("create")
	return models.ToResponse(situacao), nil
}

// Update renames a situação. Name uniqueness is only re-checked when the
// name changes case-insensitively.
func (s *Service) Update(ctx context.Context, id string, req *models.UpdateSituacaoRequest) (*models.SituacaoResponse, error) {
	defer s.metrics.ObserveOperation("update", time.Now())

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var updated *models.Situacao
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
		renamed, err := current.Rename(req.Nome)
		if err != nil {
			return err
		}
		if err := s.store.Update(txCtx, renamed); err != nil {
			return translateWriteErr(err, "failed to update situacao")
		}
		updated = renamed
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, updated.ID, audit.ActionUpdated)
	s.metrics.IncrementMutation("update")
	return models.ToResponse(updated), nil
}

func (s *Service) FindByID(ctx context.Context, id string) (*models.SituacaoResponse, error) {
	situacao, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return models.ToResponse(situacao), nil
}

// Get returns the entity itself. The cartório service resolves references
// through it.
func (s *Service) Get(ctx context.Context, id string) (*models.Situacao, error) {
	return s.get(ctx, id)
}

// Delete removes a situação. A store refusal other than not-found (for
// example a row still referenced by a cartório) is returned unclassified.
func (s *Service) Delete(ctx context.Context, id string) error {
	defer s.metrics.ObserveOperation("delete", time.Now())

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.get(txCtx, id); err != nil {
			return err
		}
		if err := s.store.Delete(txCtx, id); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return notFound(id)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.emit(ctx, id, audit.ActionDeleted)
	s.metrics.IncrementMutation("delete")
	return nil
}

// List returns a page of summaries.
func (s *Service) List(ctx context.Context, req pagination.Request) (pagination.Page[models.SituacaoSummary], error) {
	items, total, err := s.store.List(ctx, req)
	if err != nil {
		return pagination.Page[models.SituacaoSummary]{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list situacoes")
	}
	content := make([]models.SituacaoSummary, 0, len(items))
	for _, it := range items {
		content = append(content, models.ToSummary(it))
	}
	return pagination.NewPage(content, req, total), nil
}

func (s *Service) get(ctx context.Context, id string) (*models.Situacao, error) {
	situacao, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, notFound(id)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load situacao")
	}
	return situacao, nil
}

func (s *Service) ensureNameAvailable(ctx context.Context, nome string) error {
	owner, err := s.store.FindByNome(ctx, nome)
	switch {
	case err == nil:
		return dErrors.New(dErrors.CodeConflict, "name already used by record "+owner.ID)
	case errors.Is(err, sentinel.ErrNotFound):
		return nil
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check situacao name")
	}
}

func notFound(id string) error {
	return dErrors.New(dErrors.CodeNotFound, "situacao not found: "+id)
}

func translateWriteErr(err error, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "situacao not found")
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.New(dErrors.CodeConflict, "record already registered")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}
