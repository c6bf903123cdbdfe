package models

import (
	"strings"
	"unicode/utf8"

	dErrors "escriba/pkg/domain-errors"
)

const (
	MaxIDLength   = 20
	MaxNomeLength = 50
)

// Atribuicao is a legal competency a cartório can be granted. Situacao is
// its own active flag, unrelated to the cartório's situação.
type Atribuicao struct {
	ID       string
	Nome     string
	Situacao bool
}

// AtribuicaoConfig holds constructor input. A nil Situacao means active.
type AtribuicaoConfig struct {
	ID       string
	Nome     string
	Situacao *bool
}

func NewAtribuicao(cfg AtribuicaoConfig) (*Atribuicao, error) {
	if strings.TrimSpace(cfg.ID) == "" || utf8.RuneCountInString(cfg.ID) > MaxIDLength {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid id: must be 1 to 20 characters")
	}
	if strings.TrimSpace(cfg.Nome) == "" || utf8.RuneCountInString(cfg.Nome) > MaxNomeLength {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid name: must be 1 to 50 characters")
	}
	active := true
	if cfg.Situacao != nil {
		active = *cfg.Situacao
	}
	return &Atribuicao{ID: cfg.ID, Nome: cfg.Nome, Situacao: active}, nil
}

func (a *Atribuicao) Activate() {
	a.Situacao = true
}

func (a *Atribuicao) Deactivate() {
	a.Situacao = false
}

func (a *Atribuicao) IsActive() bool {
	return a.Situacao
}

// Rename returns a copy with a new name, keeping id and active flag.
func (a *Atribuicao) Rename(nome string) (*Atribuicao, error) {
	active := a.Situacao
	return NewAtribuicao(AtribuicaoConfig{ID: a.ID, Nome: nome, Situacao: &active})
}

// Equal compares by identity.
func (a *Atribuicao) Equal(other *Atribuicao) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.ID == other.ID
}
