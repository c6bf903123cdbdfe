package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "escriba/pkg/domain-errors"
)

type SituacaoSuite struct {
	suite.Suite
}

func TestSituacaoSuite(t *testing.T) {
	suite.Run(t, new(SituacaoSuite))
}

func (s *SituacaoSuite) TestNewSituacao() {
	s.Run("valid input", func() {
		sit, err := NewSituacao("SIT_ATIVO", "Ativo")
		s.Require().NoError(err)
		s.Equal("SIT_ATIVO", sit.ID)
		s.Equal("Ativo", sit.Nome)
	})

	s.Run("boundary lengths are accepted", func() {
		_, err := NewSituacao(strings.Repeat("A", MaxIDLength), strings.Repeat("n", MaxNomeLength))
		s.NoError(err)
	})

	s.Run("multibyte names are measured in characters", func() {
		_, err := NewSituacao("SIT", strings.Repeat("ç", MaxNomeLength))
		s.NoError(err)
	})

	invalid := map[string][2]string{
		"blank id":      {"   ", "Ativo"},
		"long id":       {strings.Repeat("A", MaxIDLength+1), "Ativo"},
		"blank nome":    {"SIT", ""},
		"long nome":     {"SIT", strings.Repeat("n", MaxNomeLength+1)},
		"whitespace nm": {"SIT", "\t"},
	}
	for name, in := range invalid {
		s.Run(name, func() {
			_, err := NewSituacao(in[0], in[1])
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		})
	}
}

func (s *SituacaoSuite) TestRenameKeepsIdentity() {
	sit, err := NewSituacao("SIT_ATIVO", "Ativo")
	s.Require().NoError(err)

	renamed, err := sit.Rename("Em atividade")
	s.Require().NoError(err)
	s.Equal("SIT_ATIVO", renamed.ID)
	s.Equal("Em atividade", renamed.Nome)
	s.Equal("Ativo", sit.Nome, "original value is not mutated")
	s.True(sit.Equal(renamed))

	_, err = sit.Rename("")
	s.Error(err)
}

func (s *SituacaoSuite) TestEqualByID() {
	a := &Situacao{ID: "SIT", Nome: "Um"}
	b := &Situacao{ID: "SIT", Nome: "Outro"}
	c := &Situacao{ID: "OUTRA", Nome: "Um"}
	s.True(a.Equal(b))
	s.False(a.Equal(c))
	s.False(a.Equal(nil))
}
