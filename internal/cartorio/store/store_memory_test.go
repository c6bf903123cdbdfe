package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"escriba/internal/cartorio/models"
	"escriba/pkg/pagination"
	"escriba/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func record(id int, nome string, atribuicoes ...string) *models.Record {
	return &models.Record{ID: id, Nome: nome, SituacaoID: "SIT_ATIVO", AtribuicaoIDs: atribuicoes}
}

func (s *InMemoryStoreSuite) TestCreateAndFind() {
	s.Require().NoError(s.store.Create(s.ctx, record(1, "1º Cartório", "ATRIB_NOTAS")))

	s.Run("by id", func() {
		rec, err := s.store.FindByID(s.ctx, 1)
		s.Require().NoError(err)
		s.Equal([]string{"ATRIB_NOTAS"}, rec.AtribuicaoIDs)
	})

	s.Run("by name ignoring case", func() {
		rec, err := s.store.FindByNome(s.ctx, "1º CARTÓRIO")
		s.Require().NoError(err)
		s.Equal(1, rec.ID)
	})

	s.Run("duplicates", func() {
		s.ErrorIs(s.store.Create(s.ctx, record(1, "Outro", "ATRIB_NOTAS")), sentinel.ErrAlreadyUsed)
		s.ErrorIs(s.store.Create(s.ctx, record(2, "1º cartório", "ATRIB_NOTAS")), sentinel.ErrAlreadyUsed)
	})

	s.Run("stored links are not aliased", func() {
		rec, err := s.store.FindByID(s.ctx, 1)
		s.Require().NoError(err)
		rec.AtribuicaoIDs[0] = "MUTATED"

		again, err := s.store.FindByID(s.ctx, 1)
		s.Require().NoError(err)
		s.Equal("ATRIB_NOTAS", again.AtribuicaoIDs[0])
	})
}

func (s *InMemoryStoreSuite) TestUpdateReplacesLinks() {
	s.Require().NoError(s.store.Create(s.ctx, record(1, "1º Cartório", "ATRIB_NOTAS", "ATRIB_PROTESTO")))

	updated := record(1, "1º Cartório", "ATRIB_NOTAS")
	updated.SituacaoID = "SIT_INATIVO"
	s.Require().NoError(s.store.Update(s.ctx, updated))

	rec, err := s.store.FindByID(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal("SIT_INATIVO", rec.SituacaoID)
	s.Equal([]string{"ATRIB_NOTAS"}, rec.AtribuicaoIDs)

	s.ErrorIs(s.store.Update(s.ctx, record(9, "Nove", "ATRIB_NOTAS")), sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestReferenceChecks() {
	s.Require().NoError(s.store.Create(s.ctx, record(1, "1º Cartório", "ATRIB_NOTAS")))

	used, err := s.store.UsesSituacao(s.ctx, "SIT_ATIVO")
	s.Require().NoError(err)
	s.True(used)

	used, err = s.store.UsesSituacao(s.ctx, "SIT_INATIVO")
	s.Require().NoError(err)
	s.False(used)

	used, err = s.store.UsesAtribuicao(s.ctx, "ATRIB_NOTAS")
	s.Require().NoError(err)
	s.True(used)

	s.Require().NoError(s.store.Delete(s.ctx, 1))
	used, err = s.store.UsesAtribuicao(s.ctx, "ATRIB_NOTAS")
	s.Require().NoError(err)
	s.False(used)
}

func (s *InMemoryStoreSuite) TestList() {
	s.Require().NoError(s.store.Create(s.ctx, record(3, "Cartório B", "A")))
	s.Require().NoError(s.store.Create(s.ctx, record(1, "Cartório C", "A")))
	s.Require().NoError(s.store.Create(s.ctx, record(2, "Cartório A", "A")))

	page, total, err := s.store.List(s.ctx, pagination.Default())
	s.Require().NoError(err)
	s.Equal(3, total)
	s.Equal([]int{2, 3, 1}, ids(page))

	page, _, err = s.store.List(s.ctx, pagination.Request{Size: 2, SortField: pagination.SortByID, Direction: pagination.Desc})
	s.Require().NoError(err)
	s.Equal([]int{3, 2}, ids(page))
}

func ids(recs []*models.Record) []int {
	out := make([]int, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}
