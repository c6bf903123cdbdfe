// Package atribuicao wires the atribuição module: competencies a cartório
// can be granted, each with its own active flag.
package atribuicao

import (
	"log/slog"

	"escriba/internal/atribuicao/handler"
	"escriba/internal/atribuicao/service"
)

type Service = service.Service

type Handler = handler.Handler

func NewService(store service.Store, opts ...service.Option) *Service {
	return service.New(store, opts...)
}

func NewHandler(s *Service, logger *slog.Logger, apiPrefix string) *Handler {
	return handler.New(s, logger, apiPrefix)
}
