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

// Situacao is an operating status a cartório can be in.
//
// Invariants:
//   - ID is non-blank and at most 20 characters; it never changes
//   - Nome is non-blank and at most 50 characters
//
// A Situacao is immutable. Renaming builds a new value with the same ID.
type Situacao struct {
	ID   string
	Nome string
}

// NewSituacao validates and builds a Situacao.
func NewSituacao(id, nome string) (*Situacao, error) {
	if strings.TrimSpace(id) == "" || utf8.RuneCountInString(id) > MaxIDLength {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid id: must be 1 to 20 characters")
	}
	if strings.TrimSpace(nome) == "" || utf8.RuneCountInString(nome) > MaxNomeLength {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid name: must be 1 to 50 characters")
	}
	return &Situacao{ID: id, Nome: nome}, nil
}

// Rename returns a new Situacao with the same ID.
func (s *Situacao) Rename(nome string) (*Situacao, error) {
	return NewSituacao(s.ID, nome)
}

// Equal compares by identity.
func (s *Situacao) Equal(other *Situacao) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.ID == other.ID
}
