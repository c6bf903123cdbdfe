package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "escriba/pkg/domain-errors"
)

func TestCreateSituacaoRequest(t *testing.T) {
	t.Run("normalizes and validates", func(t *testing.T) {
		req := CreateSituacaoRequest{ID: " SIT_ATIVO ", Nome: " Ativo "}
		req.Normalize()
		require.NoError(t, req.Validate())
		assert.Equal(t, "SIT_ATIVO", req.ID)
		assert.Equal(t, "Ativo", req.Nome)
	})

	t.Run("reports every invalid field", func(t *testing.T) {
		req := CreateSituacaoRequest{ID: strings.Repeat("X", 21), Nome: " "}
		req.Normalize()
		err := req.Validate()
		de, ok := dErrors.As(err)
		require.True(t, ok)
		assert.Equal(t, dErrors.CodeValidation, de.Code)
		assert.ElementsMatch(t, []string{
			"id: must have at most 20 characters",
			"nome: is required",
		}, de.Fields)
	})
}

func TestUpdateSituacaoRequest(t *testing.T) {
	req := UpdateSituacaoRequest{Nome: strings.Repeat("n", 51)}
	err := req.Validate()
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}
