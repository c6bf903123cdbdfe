package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"escriba/internal/cartorio/models"
	"escriba/pkg/pagination"
	"escriba/pkg/platform/sentinel"
	pstrings "escriba/pkg/platform/strings"
)

// InMemory keeps cartório records and their links. It also answers the
// reference checks the situação and atribuição memory stores use in place
// of foreign keys.
type InMemory struct {
	mu        sync.RWMutex
	cartorios map[int]models.Record
}

func NewInMemory() *InMemory {
	return &InMemory{cartorios: make(map[int]models.Record)}
}

func (s *InMemory) Create(_ context.Context, rec *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cartorios[rec.ID]; ok {
		return fmt.Errorf("cartorio id %d: %w", rec.ID, sentinel.ErrAlreadyUsed)
	}
	if owner, ok := s.nameOwner(rec.Nome); ok {
		return fmt.Errorf("cartorio name owned by %d: %w", owner, sentinel.ErrAlreadyUsed)
	}
	s.cartorios[rec.ID] = clone(rec)
	return nil
}

// Update replaces the row and its links.
func (s *InMemory) Update(_ context.Context, rec *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cartorios[rec.ID]; !ok {
		return sentinel.ErrNotFound
	}
	if owner, ok := s.nameOwner(rec.Nome); ok && owner != rec.ID {
		return fmt.Errorf("cartorio name owned by %d: %w", owner, sentinel.ErrAlreadyUsed)
	}
	s.cartorios[rec.ID] = clone(rec)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id int) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.cartorios[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := clone(&rec)
	return &out, nil
}

// FindByIDForUpdate is FindByID; the memory transaction manager already
// serialises writers.
func (s *InMemory) FindByIDForUpdate(ctx context.Context, id int) (*models.Record, error) {
	return s.FindByID(ctx, id)
}

func (s *InMemory) FindByNome(_ context.Context, nome string) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owner, ok := s.nameOwner(nome)
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	rec := s.cartorios[owner]
	out := clone(&rec)
	return &out, nil
}

func (s *InMemory) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cartorios[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.cartorios, id)
	return nil
}

func (s *InMemory) List(_ context.Context, req pagination.Request) ([]*models.Record, int, error) {
	s.mu.RLock()
	all := make([]*models.Record, 0, len(s.cartorios))
	for _, rec := range s.cartorios {
		out := clone(&rec)
		all = append(all, &out)
	}
	s.mu.RUnlock()

	slices.SortFunc(all, func(a, b *models.Record) int {
		c := 0
		if req.SortField != pagination.SortByID {
			c = pstrings.CompareNames(a.Nome, b.Nome)
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if req.Descending() {
			return -c
		}
		return c
	})
	return pagination.Slice(all, req), len(all), nil
}

// UsesSituacao reports whether any cartório points at situacaoID.
func (s *InMemory) UsesSituacao(_ context.Context, situacaoID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.cartorios {
		if rec.SituacaoID == situacaoID {
			return true, nil
		}
	}
	return false, nil
}

// UsesAtribuicao reports whether any cartório links atribuicaoID.
func (s *InMemory) UsesAtribuicao(_ context.Context, atribuicaoID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.cartorios {
		if slices.Contains(rec.AtribuicaoIDs, atribuicaoID) {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemory) nameOwner(nome string) (int, bool) {
	key := pstrings.FoldKey(nome)
	for id, rec := range s.cartorios {
		if pstrings.FoldKey(rec.Nome) == key {
			return id, true
		}
	}
	return 0, false
}

func clone(rec *models.Record) models.Record {
	out := *rec
	out.AtribuicaoIDs = slices.Clone(rec.AtribuicaoIDs)
	if rec.Observacao != nil {
		obs := *rec.Observacao
		out.Observacao = &obs
	}
	return out
}
