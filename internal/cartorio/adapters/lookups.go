package adapters

import (
	"context"

	atribuicaomodels "escriba/internal/atribuicao/models"
	"escriba/internal/cartorio/models"
	situacaomodels "escriba/internal/situacao/models"
)

// situacaoGetter is the situação service method the adapter needs. Defined
// locally to avoid coupling to the service package.
type situacaoGetter interface {
	Get(ctx context.Context, id string) (*situacaomodels.Situacao, error)
}

type atribuicaoGetter interface {
	Get(ctx context.Context, id string) (*atribuicaomodels.Atribuicao, error)
}

// SituacaoLookup adapts the situação service to ports.SituacaoLookup.
type SituacaoLookup struct {
	situacoes situacaoGetter
}

func NewSituacaoLookup(svc situacaoGetter) *SituacaoLookup {
	return &SituacaoLookup{situacoes: svc}
}

func (a *SituacaoLookup) ResolveSituacao(ctx context.Context, id string) (*models.SituacaoRef, error) {
	s, err := a.situacoes.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.SituacaoRef{ID: s.ID, Nome: s.Nome}, nil
}

// AtribuicaoLookup adapts the atribuição service to ports.AtribuicaoLookup.
type AtribuicaoLookup struct {
	atribuicoes atribuicaoGetter
}

func NewAtribuicaoLookup(svc atribuicaoGetter) *AtribuicaoLookup {
	return &AtribuicaoLookup{atribuicoes: svc}
}

func (a *AtribuicaoLookup) ResolveAtribuicao(ctx context.Context, id string) (*models.AtribuicaoRef, error) {
	at, err := a.atribuicoes.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.AtribuicaoRef{ID: at.ID, Nome: at.Nome, Active: at.IsActive()}, nil
}
