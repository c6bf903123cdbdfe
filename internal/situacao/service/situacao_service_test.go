package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"escriba/internal/situacao/models"
	"escriba/internal/situacao/store"
	dErrors "escriba/pkg/domain-errors"
	"escriba/pkg/pagination"
	audit "escriba/pkg/platform/audit"
	"escriba/pkg/platform/audit/publisher"
	auditmemory "escriba/pkg/platform/audit/store/memory"
	"escriba/pkg/platform/sentinel"
	"escriba/pkg/testutil"
)

type SituacaoServiceSuite struct {
	suite.Suite
	ctx        context.Context
	store      *store.InMemory
	auditStore *auditmemory.InMemoryStore
	service    *Service
}

func TestSituacaoServiceSuite(t *testing.T) {
	suite.Run(t, new(SituacaoServiceSuite))
}

func (s *SituacaoServiceSuite) SetupTest() {
	s.ctx = testutil.Context("req-situacao")
	s.store = store.NewInMemory()
	s.auditStore = auditmemory.NewInMemoryStore()
	s.service = New(s.store, WithAuditPublisher(publisher.NewPublisher(s.auditStore)))
}

func (s *SituacaoServiceSuite) create(id, nome string) *models.SituacaoResponse {
	resp, err := s.service.Create(s.ctx, &models.CreateSituacaoRequest{ID: id, Nome: nome})
	s.Require().NoError(err)
	return resp
}

func (s *SituacaoServiceSuite) TestCreate() {
	s.Run("echoes id and nome", func() {
		resp := s.create("SIT_ATIVO", "Ativo")
		s.Equal("SIT_ATIVO", resp.ID)
		s.Equal("Ativo", resp.Nome)
	})

	s.Run("duplicate id is a conflict even with a new name", func() {
		_, err := s.service.Create(s.ctx, &models.CreateSituacaoRequest{ID: "SIT_ATIVO", Nome: "Outro"})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Contains(err.Error(), "record already registered")
	})

	s.Run("duplicate name in another case names the owner", func() {
		_, err := s.service.Create(s.ctx, &models.CreateSituacaoRequest{ID: "SIT_2", Nome: "ATIVO"})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Contains(err.Error(), "name already used by record SIT_ATIVO")
	})

	s.Run("id check takes precedence over name check", func() {
		_, err := s.service.Create(s.ctx, &models.CreateSituacaoRequest{ID: "SIT_ATIVO", Nome: "ativo"})
		s.Contains(err.Error(), "record already registered")
	})

	s.Run("invalid request is a validation error", func() {
		_, err := s.service.Create(s.ctx, &models.CreateSituacaoRequest{ID: strings.Repeat("X", 21), Nome: "N"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("emits an audit event with the request id", func() {
		events, err := s.auditStore.ListByEntity(s.ctx, audit.EntitySituacao, "SIT_ATIVO")
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(audit.ActionCreated, events[0].Action)
		s.Equal("req-situacao", events[0].RequestID)
	})
}

func (s *SituacaoServiceSuite) TestUpdate() {
	s.create("SIT_ATIVO", "Ativo")
	s.create("SIT_INATIVO", "Inativo")

	s.Run("renames keeping the id", func() {
		resp, err := s.service.Update(s.ctx, "SIT_ATIVO", &models.UpdateSituacaoRequest{Nome: "Em atividade"})
		s.Require().NoError(err)
		s.Equal("SIT_ATIVO", resp.ID)
		s.Equal("Em atividade", resp.Nome)
	})

	s.Run("case-only change skips the uniqueness check", func() {
		_, err := s.service.Update(s.ctx, "SIT_INATIVO", &models.UpdateSituacaoRequest{Nome: "INATIVO"})
		s.NoError(err)
	})

	s.Run("taking another row's name is a conflict", func() {
		_, err := s.service.Update(s.ctx, "SIT_INATIVO", &models.UpdateSituacaoRequest{Nome: "em atividade"})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("unknown id is not found", func() {
		_, err := s.service.Update(s.ctx, "NOPE", &models.UpdateSituacaoRequest{Nome: "X"})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *SituacaoServiceSuite) TestFindAndGet() {
	s.create("SIT_ATIVO", "Ativo")

	resp, err := s.service.FindByID(s.ctx, "SIT_ATIVO")
	s.Require().NoError(err)
	s.Equal("Ativo", resp.Nome)

	entity, err := s.service.Get(s.ctx, "SIT_ATIVO")
	s.Require().NoError(err)
	s.Equal("SIT_ATIVO", entity.ID)

	_, err = s.service.FindByID(s.ctx, "NOPE")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *SituacaoServiceSuite) TestDelete() {
	s.Run("removes and audits", func() {
		s.create("SIT_A", "A")
		s.Require().NoError(s.service.Delete(s.ctx, "SIT_A"))

		_, err := s.service.FindByID(s.ctx, "SIT_A")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

		events, _ := s.auditStore.ListByEntity(s.ctx, audit.EntitySituacao, "SIT_A")
		s.Require().Len(events, 2)
		s.Equal(audit.ActionDeleted, events[1].Action)
	})

	s.Run("unknown id is not found", func() {
		s.True(dErrors.HasCode(s.service.Delete(s.ctx, "NOPE"), dErrors.CodeNotFound))
	})

	s.Run("store refusal is returned unclassified", func() {
		s.store = store.NewInMemory(store.WithReferenceChecker(func(context.Context, string) (bool, error) {
			return true, nil
		}))
		s.service = New(s.store)
		s.create("SIT_USED", "Usada")

		err := s.service.Delete(s.ctx, "SIT_USED")
		s.Require().Error(err)
		s.ErrorIs(err, sentinel.ErrInUse)
		_, isDomain := dErrors.As(err)
		s.False(isDomain)
	})
}

func (s *SituacaoServiceSuite) TestList() {
	s.create("SIT_C", "Gama")
	s.create("SIT_A", "Alfa")
	s.create("SIT_B", "Beta")

	page, err := s.service.List(s.ctx, pagination.Request{Page: 0, Size: 2, SortField: pagination.SortByNome})
	s.Require().NoError(err)
	s.Equal(3, page.TotalElements)
	s.Equal(2, page.TotalPages)
	s.Require().Len(page.Content, 2)
	s.Equal("Alfa", page.Content[0].Nome)
	s.Equal("Beta", page.Content[1].Nome)
}

type failingAudit struct{}

func (failingAudit) Emit(context.Context, audit.Event) error { return errors.New("sink down") }

func (s *SituacaoServiceSuite) TestAuditFailureDoesNotUndoMutation() {
	s.service = New(s.store, WithAuditPublisher(failingAudit{}))
	s.create("SIT_ATIVO", "Ativo")

	_, err := s.store.FindByID(s.ctx, "SIT_ATIVO")
	s.NoError(err)
}
