package models

import (
	"slices"
	"strings"
	"unicode/utf8"

	dErrors "escriba/pkg/domain-errors"
)

const (
	MaxNomeLength       = 150
	MaxObservacaoLength = 250
)

// SituacaoRef is the situação a cartório points at, as resolved at link time.
type SituacaoRef struct {
	ID   string
	Nome string
}

// AtribuicaoRef is a linked atribuição as resolved at link time.
type AtribuicaoRef struct {
	ID     string
	Nome   string
	Active bool
}

// Cartorio is the aggregate root: an office with exactly one situação and a
// non-empty set of atribuições.
//
// Invariants:
//   - ID > 0 and never changes
//   - Nome is non-blank and at most 150 characters
//   - situacao is never nil
//   - atribuicoes is never empty after construction
//   - only active atribuições are ever added after construction
//
// Identity is by ID.
type Cartorio struct {
	ID          int
	Nome        string
	Observacao  *string
	situacao    *SituacaoRef
	atribuicoes map[string]*AtribuicaoRef
}

// CartorioConfig is the constructor input. Observacao is optional.
type CartorioConfig struct {
	ID          int
	Nome        string
	Observacao  *string
	Situacao    *SituacaoRef
	Atribuicoes []*AtribuicaoRef
}

// NewCartorio validates cfg in a fixed order; the first failing check wins.
func NewCartorio(cfg CartorioConfig) (*Cartorio, error) {
	if cfg.ID <= 0 {
		return nil, invariant("ID é obrigatório e deve ser maior que zero")
	}
	if strings.TrimSpace(cfg.Nome) == "" {
		return nil, invariant("Nome é obrigatório")
	}
	if utf8.RuneCountInString(cfg.Nome) > MaxNomeLength {
		return nil, invariant("Nome não pode ter mais que 150 caracteres")
	}
	if cfg.Situacao == nil {
		return nil, invariant("Situação é obrigatória")
	}

	atribuicoes := make(map[string]*AtribuicaoRef, len(cfg.Atribuicoes))
	for _, a := range cfg.Atribuicoes {
		if a != nil {
			atribuicoes[a.ID] = a
		}
	}
	if len(atribuicoes) == 0 {
		return nil, invariant("O cartório deve ter pelo menos uma atribuição")
	}

	return &Cartorio{
		ID:          cfg.ID,
		Nome:        cfg.Nome,
		Observacao:  cfg.Observacao,
		situacao:    cfg.Situacao,
		atribuicoes: atribuicoes,
	}, nil
}

func (c *Cartorio) Situacao() *SituacaoRef {
	return c.situacao
}

// ChangeSituacao replaces the situação. Whether it exists is the caller's
// concern.
func (c *Cartorio) ChangeSituacao(s *SituacaoRef) error {
	if s == nil {
		return invariant("Situação é obrigatória")
	}
	c.situacao = s
	return nil
}

// AddAtribuicao links an active atribuição. Re-adding a member is a no-op.
func (c *Cartorio) AddAtribuicao(a *AtribuicaoRef) error {
	if a == nil {
		return invariant("atribuicao is required")
	}
	if !a.Active {
		return invariant("cannot add an inactive attribution")
	}
	c.atribuicoes[a.ID] = a
	return nil
}

// RemoveAtribuicao unlinks a. It fails whenever only one atribuição is left,
// even if a is not a member.
func (c *Cartorio) RemoveAtribuicao(a *AtribuicaoRef) error {
	if len(c.atribuicoes) <= 1 {
		return invariant("must keep at least one attribution")
	}
	if a != nil {
		delete(c.atribuicoes, a.ID)
	}
	return nil
}

// HasAtribuicao reports membership by id.
func (c *Cartorio) HasAtribuicao(id string) bool {
	_, ok := c.atribuicoes[id]
	return ok
}

// Atribuicoes returns the linked atribuições ordered by id.
func (c *Cartorio) Atribuicoes() []*AtribuicaoRef {
	out := make([]*AtribuicaoRef, 0, len(c.atribuicoes))
	for _, a := range c.atribuicoes {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b *AtribuicaoRef) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// AtribuicaoIDs returns the linked ids, sorted.
func (c *Cartorio) AtribuicaoIDs() []string {
	ids := make([]string, 0, len(c.atribuicoes))
	for id := range c.atribuicoes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Rename rebuilds the aggregate with a new nome and observacao, keeping id,
// situação and atribuições.
func (c *Cartorio) Rename(nome string, observacao *string) (*Cartorio, error) {
	return NewCartorio(CartorioConfig{
		ID:          c.ID,
		Nome:        nome,
		Observacao:  observacao,
		Situacao:    c.situacao,
		Atribuicoes: c.Atribuicoes(),
	})
}

func (c *Cartorio) Equal(other *Cartorio) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.ID == other.ID
}

// Record is the persisted shape: the row plus the linked ids.
type Record struct {
	ID            int
	Nome          string
	Observacao    *string
	SituacaoID    string
	AtribuicaoIDs []string
}

func (c *Cartorio) Record() *Record {
	return &Record{
		ID:            c.ID,
		Nome:          c.Nome,
		Observacao:    c.Observacao,
		SituacaoID:    c.situacao.ID,
		AtribuicaoIDs: c.AtribuicaoIDs(),
	}
}

func invariant(msg string) error {
	return dErrors.New(dErrors.CodeInvariantViolation, msg)
}
