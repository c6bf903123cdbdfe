package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"escriba/internal/situacao/models"
	"escriba/pkg/pagination"
	"escriba/pkg/platform/sentinel"
	pstrings "escriba/pkg/platform/strings"
)

// ReferenceChecker reports whether a situação is still referenced by a
// cartório. The in-memory backend has no foreign keys, so the cartório store
// supplies this.
type ReferenceChecker func(ctx context.Context, situacaoID string) (bool, error)

// InMemory is a map-backed store. Name uniqueness is case-insensitive,
// matching the LOWER(nome) index of the Postgres schema.
type InMemory struct {
	mu         sync.RWMutex
	situacoes  map[string]models.Situacao
	referenced ReferenceChecker
}

type MemoryOption func(*InMemory)

// WithReferenceChecker makes Delete fail with sentinel.ErrInUse while the
// situação is referenced.
func WithReferenceChecker(fn ReferenceChecker) MemoryOption {
	return func(s *InMemory) {
		s.referenced = fn
	}
}

func NewInMemory(opts ...MemoryOption) *InMemory {
	s := &InMemory{situacoes: make(map[string]models.Situacao)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemory) Create(_ context.Context, situacao *models.Situacao) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.situacoes[situacao.ID]; ok {
		return fmt.Errorf("situacao id %s: %w", situacao.ID, sentinel.ErrAlreadyUsed)
	}
	if owner, ok := s.nameOwner(situacao.Nome); ok {
		return fmt.Errorf("situacao name owned by %s: %w", owner, sentinel.ErrAlreadyUsed)
	}
	s.situacoes[situacao.ID] = *situacao
	return nil
}

func (s *InMemory) Update(_ context.Context, situacao *models.Situacao) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.situacoes[situacao.ID]; !ok {
		return sentinel.ErrNotFound
	}
	if owner, ok := s.nameOwner(situacao.Nome); ok && owner != situacao.ID {
		return fmt.Errorf("situacao name owned by %s: %w", owner, sentinel.ErrAlreadyUsed)
	}
	s.situacoes[situacao.ID] = *situacao
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (*models.Situacao, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found, ok := s.situacoes[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &found, nil
}

func (s *InMemory) FindByNome(_ context.Context, nome string) (*models.Situacao, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owner, ok := s.nameOwner(nome)
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	found := s.situacoes[owner]
	return &found, nil
}

func (s *InMemory) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.situacoes[id]; !ok {
		return sentinel.ErrNotFound
	}
	if s.referenced != nil {
		inUse, err := s.referenced(ctx, id)
		if err != nil {
			return err
		}
		if inUse {
			return fmt.Errorf("situacao %s referenced by cartorio: %w", id, sentinel.ErrInUse)
		}
	}
	delete(s.situacoes, id)
	return nil
}

// List returns one page and the total row count.
func (s *InMemory) List(_ context.Context, req pagination.Request) ([]*models.Situacao, int, error) {
	s.mu.RLock()
	all := make([]*models.Situacao, 0, len(s.situacoes))
	for _, v := range s.situacoes {
		all = append(all, &v)
	}
	s.mu.RUnlock()

	slices.SortFunc(all, func(a, b *models.Situacao) int {
		c := 0
		if req.SortField != pagination.SortByID {
			c = pstrings.CompareNames(a.Nome, b.Nome)
		}
		if c == 0 {
			c = strings.Compare(a.ID, b.ID)
		}
		if req.Descending() {
			return -c
		}
		return c
	})
	return pagination.Slice(all, req), len(all), nil
}

func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.situacoes), nil
}

func (s *InMemory) nameOwner(nome string) (string, bool) {
	key := pstrings.FoldKey(nome)
	for id, v := range s.situacoes {
		if pstrings.FoldKey(v.Nome) == key {
			return id, true
		}
	}
	return "", false
}
