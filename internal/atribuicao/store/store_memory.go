package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"escriba/internal/atribuicao/models"
	"escriba/pkg/pagination"
	"escriba/pkg/platform/sentinel"
	pstrings "escriba/pkg/platform/strings"
)

// ReferenceChecker reports whether an atribuição is linked to a cartório.
type ReferenceChecker func(ctx context.Context, atribuicaoID string) (bool, error)

// InMemory is a map-backed store with case-insensitive name uniqueness.
type InMemory struct {
	mu          sync.RWMutex
	atribuicoes map[string]models.Atribuicao
	referenced  ReferenceChecker
}

type MemoryOption func(*InMemory)

// WithReferenceChecker makes Delete fail with sentinel.ErrInUse while the
// atribuição is linked.
func WithReferenceChecker(fn ReferenceChecker) MemoryOption {
	return func(s *InMemory) {
		s.referenced = fn
	}
}

func NewInMemory(opts ...MemoryOption) *InMemory {
	s := &InMemory{atribuicoes: make(map[string]models.Atribuicao)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemory) Create(_ context.Context, atribuicao *models.Atribuicao) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.atribuicoes[atribuicao.ID]; ok {
		return fmt.Errorf("atribuicao id %s: %w", atribuicao.ID, sentinel.ErrAlreadyUsed)
	}
	if owner, ok := s.nameOwner(atribuicao.Nome); ok {
		return fmt.Errorf("atribuicao name owned by %s: %w", owner, sentinel.ErrAlreadyUsed)
	}
	s.atribuicoes[atribuicao.ID] = *atribuicao
	return nil
}

// Update persists nome and the active flag.
func (s *InMemory) Update(_ context.Context, atribuicao *models.Atribuicao) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.atribuicoes[atribuicao.ID]; !ok {
		return sentinel.ErrNotFound
	}
	if owner, ok := s.nameOwner(atribuicao.Nome); ok && owner != atribuicao.ID {
		return fmt.Errorf("atribuicao name owned by %s: %w", owner, sentinel.ErrAlreadyUsed)
	}
	s.atribuicoes[atribuicao.ID] = *atribuicao
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (*models.Atribuicao, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found, ok := s.atribuicoes[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &found, nil
}

func (s *InMemory) FindByNome(_ context.Context, nome string) (*models.Atribuicao, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owner, ok := s.nameOwner(nome)
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	found := s.atribuicoes[owner]
	return &found, nil
}

func (s *InMemory) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.atribuicoes[id]; !ok {
		return sentinel.ErrNotFound
	}
	if s.referenced != nil {
		inUse, err := s.referenced(ctx, id)
		if err != nil {
			return err
		}
		if inUse {
			return fmt.Errorf("atribuicao %s linked to cartorio: %w", id, sentinel.ErrInUse)
		}
	}
	delete(s.atribuicoes, id)
	return nil
}

func (s *InMemory) List(_ context.Context, req pagination.Request) ([]*models.Atribuicao, int, error) {
	all := s.snapshot(func(models.Atribuicao) bool { return true })
	sortAtribuicoes(all, req)
	return pagination.Slice(all, req), len(all), nil
}

// ListActive returns every active atribuição ordered by nome.
func (s *InMemory) ListActive(_ context.Context) ([]*models.Atribuicao, error) {
	active := s.snapshot(func(a models.Atribuicao) bool { return a.Situacao })
	sortAtribuicoes(active, pagination.Default())
	return active, nil
}

func (s *InMemory) snapshot(keep func(models.Atribuicao) bool) []*models.Atribuicao {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Atribuicao, 0, len(s.atribuicoes))
	for _, v := range s.atribuicoes {
		if keep(v) {
			out = append(out, &v)
		}
	}
	return out
}

func sortAtribuicoes(items []*models.Atribuicao, req pagination.Request) {
	slices.SortFunc(items, func(a, b *models.Atribuicao) int {
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
}

func (s *InMemory) nameOwner(nome string) (string, bool) {
	key := pstrings.FoldKey(nome)
	for id, v := range s.atribuicoes {
		if pstrings.FoldKey(v.Nome) == key {
			return id, true
		}
	}
	return "", false
}
