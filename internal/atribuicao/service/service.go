// Package service implements the atribuição lookup service.
package service

import (
	"context"
	"log/slog"

	atribuicaometrics "escriba/internal/atribuicao/metrics"
	"escriba/internal/atribuicao/models"
	"escriba/pkg/pagination"
	audit "escriba/pkg/platform/audit"
	"escriba/pkg/platform/tx"
)

type Store interface {
	Create(ctx context.Context, atribuicao *models.Atribuicao) error
	Update(ctx context.Context, atribuicao *models.Atribuicao) error
	FindByID(ctx context.Context, id string) (*models.Atribuicao, error)
	FindByNome(ctx context.Context, nome string) (*models.Atribuicao, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, req pagination.Request) ([]*models.Atribuicao, int, error)
	ListActive(ctx context.Context) ([]*models.Atribuicao, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates atribuição lifecycle and activation.
type Service struct {
	store          Store
	tx             tx.Manager
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *atribuicaometrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *atribuicaometrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTxManager(m tx.Manager) Option {
	return func(s *Service) {
		s.tx = m
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = tx.NewMemoryManager()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

func (s *Service) emit(ctx context.Context, id string, action audit.Action) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, audit.Event{
		Entity:   audit.EntityAtribuicao,
		EntityID: id,
		Action:   action,
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"entity", audit.EntityAtribuicao,
			"entity_id", id,
			"action", action,
			"error", err,
		)
	}
}
