// Package cartorio wires the cartório module: the notary office aggregate
// with its situação and atribuições.
package cartorio

import (
	"log/slog"

	"escriba/internal/atribuicao"
	"escriba/internal/cartorio/adapters"
	"escriba/internal/cartorio/handler"
	"escriba/internal/cartorio/service"
	"escriba/internal/situacao"
)

// Service exposes cartório orchestration.
type Service = service.Service

// Handler wires HTTP endpoints to the cartório service.
type Handler = handler.Handler

// NewService constructs the cartório service, resolving references through
// the situação and atribuição services.
func NewService(store service.Store, situacoes *situacao.Service, atribuicoes *atribuicao.Service, opts ...service.Option) (*Service, error) {
	return service.New(store,
		adapters.NewSituacaoLookup(situacoes),
		adapters.NewAtribuicaoLookup(atribuicoes),
		opts...,
	)
}

func NewHandler(s *Service, logger *slog.Logger, apiPrefix string) *Handler {
	return handler.New(s, logger, apiPrefix)
}
