package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"escriba/internal/situacao/models"
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

func (s *InMemoryStoreSuite) mustCreate(id, nome string) {
	s.Require().NoError(s.store.Create(s.ctx, &models.Situacao{ID: id, Nome: nome}))
}

func (s *InMemoryStoreSuite) TestCreateAndLookups() {
	s.mustCreate("SIT_ATIVO", "Ativo")

	s.Run("finds by id", func() {
		found, err := s.store.FindByID(s.ctx, "SIT_ATIVO")
		s.Require().NoError(err)
		s.Equal("Ativo", found.Nome)
	})

	s.Run("finds by name case-insensitively", func() {
		found, err := s.store.FindByNome(s.ctx, "ATIVO")
		s.Require().NoError(err)
		s.Equal("SIT_ATIVO", found.ID)
	})

	s.Run("unknown id is not found", func() {
		_, err := s.store.FindByID(s.ctx, "NOPE")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned values are copies", func() {
		found, err := s.store.FindByID(s.ctx, "SIT_ATIVO")
		s.Require().NoError(err)
		found.Nome = "mutated"

		again, err := s.store.FindByID(s.ctx, "SIT_ATIVO")
		s.Require().NoError(err)
		s.Equal("Ativo", again.Nome)
	})
}

func (s *InMemoryStoreSuite) TestUniqueness() {
	s.mustCreate("SIT_ATIVO", "Ativo")

	s.Run("duplicate id", func() {
		err := s.store.Create(s.ctx, &models.Situacao{ID: "SIT_ATIVO", Nome: "Outro"})
		s.ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("duplicate name in another case", func() {
		err := s.store.Create(s.ctx, &models.Situacao{ID: "SIT_2", Nome: "aTIVO"})
		s.ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("update may keep its own name", func() {
		err := s.store.Update(s.ctx, &models.Situacao{ID: "SIT_ATIVO", Nome: "ATIVO"})
		s.NoError(err)
	})

	s.Run("update cannot take another row's name", func() {
		s.mustCreate("SIT_INATIVO", "Inativo")
		err := s.store.Update(s.ctx, &models.Situacao{ID: "SIT_INATIVO", Nome: "ativo"})
		s.ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("update of unknown id", func() {
		err := s.store.Update(s.ctx, &models.Situacao{ID: "NOPE", Nome: "X"})
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryStoreSuite) TestDelete() {
	s.Run("removes the row", func() {
		s.mustCreate("SIT_A", "A")
		s.Require().NoError(s.store.Delete(s.ctx, "SIT_A"))
		_, err := s.store.FindByID(s.ctx, "SIT_A")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("unknown id", func() {
		s.ErrorIs(s.store.Delete(s.ctx, "NOPE"), sentinel.ErrNotFound)
	})

	s.Run("referenced row is kept", func() {
		s.store = NewInMemory(WithReferenceChecker(func(_ context.Context, id string) (bool, error) {
			return id == "SIT_USED", nil
		}))
		s.mustCreate("SIT_USED", "Usada")

		err := s.store.Delete(s.ctx, "SIT_USED")
		s.ErrorIs(err, sentinel.ErrInUse)
		_, err = s.store.FindByID(s.ctx, "SIT_USED")
		s.NoError(err)
	})

	s.Run("checker failure is returned", func() {
		boom := errors.New("boom")
		s.store = NewInMemory(WithReferenceChecker(func(context.Context, string) (bool, error) {
			return false, boom
		}))
		s.mustCreate("SIT_X", "X")
		s.ErrorIs(s.store.Delete(s.ctx, "SIT_X"), boom)
	})
}

func (s *InMemoryStoreSuite) TestList() {
	s.mustCreate("C", "Beta")
	s.mustCreate("A", "Gama")
	s.mustCreate("B", "Alfa")

	s.Run("defaults to nome ascending", func() {
		page, total, err := s.store.List(s.ctx, pagination.Default())
		s.Require().NoError(err)
		s.Equal(3, total)
		s.Equal([]string{"Alfa", "Beta", "Gama"}, nomes(page))
	})

	s.Run("sorts by id descending", func() {
		page, _, err := s.store.List(s.ctx, pagination.Request{Size: 10, SortField: pagination.SortByID, Direction: pagination.Desc})
		s.Require().NoError(err)
		s.Equal([]string{"Beta", "Alfa", "Gama"}, nomes(page))
	})

	s.Run("pages", func() {
		page, total, err := s.store.List(s.ctx, pagination.Request{Page: 1, Size: 2, SortField: pagination.SortByNome})
		s.Require().NoError(err)
		s.Equal(3, total)
		s.Equal([]string{"Gama"}, nomes(page))
	})

	s.Run("counts", func() {
		n, err := s.store.Count(s.ctx)
		s.Require().NoError(err)
		s.Equal(3, n)
	})
}

// The same rows are listed in the same order by the Postgres store.
func (s *InMemoryStoreSuite) TestListOrderIgnoresCase() {
	s.mustCreate("SIT_B", "Gama")
	s.mustCreate("SITA", "beta")
	s.mustCreate("SIT_A", "Alfa")
	s.mustCreate("SIT_C", "Ágata")

	page, _, err := s.store.List(s.ctx, pagination.Default())
	s.Require().NoError(err)
	s.Equal([]string{"Alfa", "beta", "Gama", "Ágata"}, nomes(page))

	page, _, err = s.store.List(s.ctx, pagination.Request{Size: 10, SortField: pagination.SortByID})
	s.Require().NoError(err)
	s.Equal([]string{"beta", "Alfa", "Gama", "Ágata"}, nomes(page))
}

func nomes(items []*models.Situacao) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Nome)
	}
	return out
}
