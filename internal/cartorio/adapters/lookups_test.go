package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	atribuicaomodels "escriba/internal/atribuicao/models"
	atribuicaoservice "escriba/internal/atribuicao/service"
	atribuicaostore "escriba/internal/atribuicao/store"
	"escriba/internal/cartorio/ports"
	situacaomodels "escriba/internal/situacao/models"
	situacaoservice "escriba/internal/situacao/service"
	situacaostore "escriba/internal/situacao/store"
	dErrors "escriba/pkg/domain-errors"
)

var (
	_ ports.SituacaoLookup   = (*SituacaoLookup)(nil)
	_ ports.AtribuicaoLookup = (*AtribuicaoLookup)(nil)
)

func TestSituacaoLookup(t *testing.T) {
	ctx := context.Background()
	svc := situacaoservice.New(situacaostore.NewInMemory())
	_, err := svc.Create(ctx, &situacaomodels.CreateSituacaoRequest{ID: "SIT_ATIVO", Nome: "Ativo"})
	require.NoError(t, err)

	lookup := NewSituacaoLookup(svc)

	ref, err := lookup.ResolveSituacao(ctx, "SIT_ATIVO")
	require.NoError(t, err)
	assert.Equal(t, "Ativo", ref.Nome)

	_, err = lookup.ResolveSituacao(ctx, "NOPE")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestAtribuicaoLookupCarriesActiveFlag(t *testing.T) {
	ctx := context.Background()
	svc := atribuicaoservice.New(atribuicaostore.NewInMemory())
	inactive := false
	_, err := svc.Create(ctx, &atribuicaomodels.CreateAtribuicaoRequest{ID: "ATRIB_PROT", Nome: "Protesto", Situacao: &inactive})
	require.NoError(t, err)

	ref, err := NewAtribuicaoLookup(svc).ResolveAtribuicao(ctx, "ATRIB_PROT")
	require.NoError(t, err)
	assert.False(t, ref.Active)
}
