// Package service implements the situação lookup service: CRUD with id and
// case-insensitive name uniqueness.
package service

import (
	"context"
	"log/slog"

	situacaometrics "escriba/internal/situacao/metrics"
	"escriba/internal/situacao/models"
	"escriba/pkg/pagination"
	audit "escriba/pkg/platform/audit"
	"escriba/pkg/platform/tx"
)

// Store is the persistence port. Implementations return sentinel errors.
type Store interface {
	Create(ctx context.Context, situacao *models.Situacao) error
	Update(ctx context.Context, situacao *models.Situacao) error
	FindByID(ctx context.Context, id string) (*models.Situacao, error)
	FindByNome(ctx context.Context, nome string) (*models.Situacao, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, req pagination.Request) ([]*models.Situacao, int, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates situação lifecycle.
type Service struct {
	store          Store
	tx             tx.Manager
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *situacaometrics.Metrics
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

func WithMetrics(m *situacaometrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTxManager sets the transaction boundary. Defaults to an in-memory
// manager.
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

// emit publishes after commit. Failures are logged and never undo the
// mutation.
func (s *Service) emit(ctx context.Context, id string, action audit.Action) {
	if s.auditPublisher == nil {
		return
	}
	err := s.auditPublisher.Emit(ctx, audit.Event{
		Entity:   audit.EntitySituacao,
		EntityID: id,
		Action:   action,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"entity", audit.EntitySituacao,
			"entity_id", id,
			"action", action,
			"error", err,
		)
	}
}
