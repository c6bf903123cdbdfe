// Package ports declares what the cartório aggregate needs from the
// situação and atribuição modules. Each module keeps its own models; the
// adapters map them onto the refs below.
package ports

import (
	"context"

	"escriba/internal/cartorio/models"
)

// SituacaoLookup resolves a situação by id. A missing id is a CodeNotFound
// domain error and is propagated as-is.
type SituacaoLookup interface {
	ResolveSituacao(ctx context.Context, id string) (*models.SituacaoRef, error)
}

// AtribuicaoLookup resolves an atribuição by id.
type AtribuicaoLookup interface {
	ResolveAtribuicao(ctx context.Context, id string) (*models.AtribuicaoRef, error)
}
