package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"escriba/internal/cartorio/models"
	dErrors "escriba/pkg/domain-errors"
	"escriba/pkg/pagination"
	audit "escriba/pkg/platform/audit"
	"escriba/pkg/platform/sentinel"
	pstrings "escriba/pkg/platform/strings"
)

// Create registers a cartório. Conflicts are checked by id first, then by
// name; references are resolved before the aggregate is built.
func (s *Service) Create(ctx context.Context, req *models.CreateCartorioRequest) (resp *models.CartorioResponse, err error) {
	defer s.metrics.ObserveOperation("create", time.Now())
	ctx, span := s.tracer.Start(ctx, "cartorio.create")
	defer func() { endSpan(span, err) }()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("cartorio.id", req.ID))

	var created *models.Cartorio
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		_, err := s.store.FindByID(txCtx, req.ID)
		switch {
		case err == nil:
			return dErrors.New(dErrors.CodeConflict, "record already registered")
		case !errors.Is(err, sentinel.ErrNotFound):
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load cartorio")
		}
		if err := s.ensureNameAvailable(txCtx, req.Nome); err != nil {
			return err
		}

		situacao, err := s.situacoes.ResolveSituacao(txCtx, req.SituacaoID)
		if err != nil {
			return err
		}
		atribuicoes, err := s.resolveAtribuicoes(txCtx, req.AtribuicoesIDs)
		if err != nil {
			return err
		}
		cartorio, err := models.NewCartorio(models.CartorioConfig{
			ID:          req.ID,
			Nome:        req.Nome,
			Observacao:  req.Observacao,
			Situacao:    situacao,
			Atribuicoes: atribuicoes,
		})
		if err != nil {
			return err
		}
		if err := s.store.Create(txCtx, cartorio.Record()); err != nil {
			return translateWriteErr(err, "failed to create cartorio")
		}
		created = cartorio
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, created.ID, audit.ActionCreated, "")
	s.metrics.IncrementMutation("create")
	return models.ToResponse(created), nil
}

// Update replaces nome and observacao. Name uniqueness is only re-checked
// when the name changes case-insensitively.
func (s *Service) Update(ctx context.Context, id int, req *models.UpdateCartorioRequest) (resp *models.CartorioResponse, err error) {
	defer s.metrics.ObserveOperation("update", time.Now())
	ctx, span := s.startSpan(ctx, "cartorio.update", id)
	defer func() { endSpan(span, err) }()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.mutate(ctx, id, func(txCtx context.Context, c *models.Cartorio) (*models.Cartorio, error) {
		if pstrings.FoldKey(c.Nome) != pstrings.FoldKey(req.Nome) {
			if err := s.ensureNameAvailable(txCtx, req.Nome); err != nil {
				return nil, err
			}
		}
		return c.Rename(req.Nome, req.Observacao)
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, id, audit.ActionUpdated, "")
	s.metrics.IncrementMutation("update")
	return models.ToResponse(updated), nil
}

// ChangeSituacao points the cartório at another situação.
func (s *Service) ChangeSituacao(ctx context.Context, id int, req *models.ReferenceRequest) (resp *models.CartorioResponse, err error) {
	defer s.metrics.ObserveOperation("change_situacao", time.Now())
	ctx, span := s.startSpan(ctx, "cartorio.change_situacao", id)
	defer func() { endSpan(span, err) }()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.mutate(ctx, id, func(txCtx context.Context, c *models.Cartorio) (*models.Cartorio, error) {
		situacao, err := s.situacoes.ResolveSituacao(txCtx, req.ID)
		if err != nil {
			return nil, err
		}
		return c, c.ChangeSituacao(situacao)
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, id, audit.ActionSituacaoChanged, req.ID)
	s.metrics.IncrementMutation("change_situacao")
	return models.ToResponse(updated), nil
}

// AddAtribuicao links an active atribuição. Linking a member again
// succeeds without change.
func (s *Service) AddAtribuicao(ctx context.Context, id int, req *models.ReferenceRequest) (resp *models.CartorioResponse, err error) {
	defer s.metrics.ObserveOperation("add_atribuicao", time.Now())
	ctx, span := s.startSpan(ctx, "cartorio.add_atribuicao", id)
	defer func() { endSpan(span, err) }()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("atribuicao.id", req.ID))

	updated, err := s.mutate(ctx, id, func(txCtx context.Context, c *models.Cartorio) (*models.Cartorio, error) {
		atribuicao, err := s.atribuicoes.ResolveAtribuicao(txCtx, req.ID)
		if err != nil {
			return nil, err
		}
		return c, c.AddAtribuicao(atribuicao)
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, id, audit.ActionAtribuicaoAdded, req.ID)
	s.metrics.IncrementLinkChange("added")
	return models.ToResponse(updated), nil
}

// RemoveAtribuicao unlinks an atribuição. The atribuição must exist; the
// cartório must keep at least one.
func (s *Service) RemoveAtribuicao(ctx context.Context, id int, req *models.ReferenceRequest) (resp *models.CartorioResponse, err error) {
	defer s.metrics.ObserveOperation("remove_atribuicao", time.Now())
	ctx, span := s.startSpan(ctx, "cartorio.remove_atribuicao", id)
	defer func() { endSpan(span, err) }()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("atribuicao.id", req.ID))

	updated, err := s.mutate(ctx, id, func(txCtx context.Context, c *models.Cartorio) (*models.Cartorio, error) {
		atribuicao, err := s.atribuicoes.ResolveAtribuicao(txCtx, req.ID)
		if err != nil {
			return nil, err
		}
		return c, c.RemoveAtribuicao(atribuicao)
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, id, audit.ActionAtribuicaoRemoved, req.ID)
	s.metrics.IncrementLinkChange("removed")
	return models.ToResponse(updated), nil
}

// Delete removes a cartório. Any store refusal is reported as an integrity
// constraint.
func (s *Service) Delete(ctx context.Context, id int) (err error) {
	defer s.metrics.ObserveOperation("delete", time.Now())
	ctx, span := s.startSpan(ctx, "cartorio.delete", id)
	defer func() { endSpan(span, err) }()

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.loadForUpdate(txCtx, id); err != nil {
			return err
		}
		if err := s.store.Delete(txCtx, id); err != nil {
			s.logger.WarnContext(txCtx, "cartorio delete refused by store", "cartorio_id", id, "error", err)
			return dErrors.Wrap(err, dErrors.CodeIntegrityConstraint, "record is in use elsewhere")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.emit(ctx, id, audit.ActionDeleted, "")
	s.metrics.IncrementMutation("delete")
	return nil
}

// FindByID returns the full view with situação and atribuições resolved.
func (s *Service) FindByID(ctx context.Context, id int) (resp *models.CartorioResponse, err error) {
	ctx, span := s.startSpan(ctx, "cartorio.find", id)
	defer func() { endSpan(span, err) }()

	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	cartorio, err := s.hydrate(ctx, rec)
	if err != nil {
		return nil, err
	}
	return models.ToResponse(cartorio), nil
}

// List returns a page of (id, nome) summaries.
func (s *Service) List(ctx context.Context, req pagination.Request) (page pagination.Page[models.CartorioSummary], err error) {
	ctx, span := s.tracer.Start(ctx, "cartorio.list")
	defer func() { endSpan(span, err) }()

	items, total, err := s.store.List(ctx, req)
	if err != nil {
		return pagination.Page[models.CartorioSummary]{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list cartorios")
	}
	content := make([]models.CartorioSummary, 0, len(items))
	for _, it := range items {
		content = append(content, models.ToSummary(it))
	}
	return pagination.NewPage(content, req, total), nil
}

// mutate loads and rebuilds the aggregate, applies fn and persists the
// result, all in one transaction.
func (s *Service) mutate(ctx context.Context, id int, fn func(context.Context, *models.Cartorio) (*models.Cartorio, error)) (*models.Cartorio, error) {
	var result *models.Cartorio
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		rec, err := s.loadForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		current, err := s.hydrate(txCtx, rec)
		if err != nil {
			return err
		}
		next, err := fn(txCtx, current)
		if err != nil {
			return err
		}
		if err := s.store.Update(txCtx, next.Record()); err != nil {
			return translateWriteErr(err, "failed to update cartorio")
		}
		result = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) load(ctx context.Context, id int) (*models.Record, error) {
	rec, err := s.store.FindByID(ctx, id)
	return translateLoad(id, rec, err)
}

// loadForUpdate locks the row so concurrent link changes on the same
// cartório apply one after the other.
func (s *Service) loadForUpdate(ctx context.Context, id int) (*models.Record, error) {
	rec, err := s.store.FindByIDForUpdate(ctx, id)
	return translateLoad(id, rec, err)
}

func translateLoad(id int, rec *models.Record, err error) (*models.Record, error) {
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, notFound(id)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load cartorio")
	}
	return rec, nil
}

// hydrate rebuilds the aggregate from its record by resolving every
// reference through the ports.
func (s *Service) hydrate(ctx context.Context, rec *models.Record) (*models.Cartorio, error) {
	situacao, err := s.situacoes.ResolveSituacao(ctx, rec.SituacaoID)
	if err != nil {
		return nil, err
	}
	atribuicoes, err := s.resolveAtribuicoes(ctx, rec.AtribuicaoIDs)
	if err != nil {
		return nil, err
	}
	return models.NewCartorio(models.CartorioConfig{
		ID:          rec.ID,
		Nome:        rec.Nome,
		Observacao:  rec.Observacao,
		Situacao:    situacao,
		Atribuicoes: atribuicoes,
	})
}

func (s *Service) resolveAtribuicoes(ctx context.Context, ids []string) ([]*models.AtribuicaoRef, error) {
	out := make([]*models.AtribuicaoRef, 0, len(ids))
	for _, id := range ids {
		a, err := s.atribuicoes.ResolveAtribuicao(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *Service) ensureNameAvailable(ctx context.Context, nome string) error {
	owner, err := s.store.FindByNome(ctx, nome)
	switch {
	case err == nil:
		return dErrors.New(dErrors.CodeConflict, "name already used by record "+strconv.Itoa(owner.ID))
	case errors.Is(err, sentinel.ErrNotFound):
		return nil
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check cartorio name")
	}
}

func (s *Service) startSpan(ctx context.Context, name string, id int) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attribute.Int("cartorio.id", id)))
}

func notFound(id int) error {
	return dErrors.New(dErrors.CodeNotFound, "cartorio not found: "+strconv.Itoa(id))
}

func translateWriteErr(err error, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "cartorio not found")
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.New(dErrors.CodeConflict, "record already registered")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}
