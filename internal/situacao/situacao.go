// Package situacao wires the situação module: a status a cartório can be in.
package situacao

import (
	"log/slog"

	"escriba/internal/situacao/handler"
	"escriba/internal/situacao/service"
)

// Service exposes situação orchestration.
type Service = service.Service

// Handler wires HTTP endpoints to the situação service.
type Handler = handler.Handler

// NewService constructs the situação service.
func NewService(store service.Store, opts ...service.Option) *Service {
	return service.New(store, opts...)
}

// NewHandler constructs the HTTP handler for the situação routes.
func NewHandler(s *Service, logger *slog.Logger, apiPrefix string) *Handler {
	return handler.New(s, logger, apiPrefix)
}
