// Package service implements the cartório service: the aggregate lifecycle
// with reference resolution through the situação and atribuição ports.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	cartoriometrics "escriba/internal/cartorio/metrics"
	"escriba/internal/cartorio/models"
	"escriba/internal/cartorio/ports"
	"escriba/internal/platform/tracing"
	"escriba/pkg/pagination"
	audit "escriba/pkg/platform/audit"
	"escriba/pkg/platform/tx"
)

// Store persists cartório records. Implementations return sentinel errors.
type Store interface {
	Create(ctx context.Context, rec *models.Record) error
	Update(ctx context.Context, rec *models.Record) error
	FindByID(ctx context.Context, id int) (*models.Record, error)
	// FindByIDForUpdate reads like FindByID and holds the row until the
	// surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id int) (*models.Record, error)
	FindByNome(ctx context.Context, nome string) (*models.Record, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, req pagination.Request) ([]*models.Record, int, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates the cartório aggregate. Every mutation loads, changes
// and persists inside one transaction.
type Service struct {
	store          Store
	situacoes      ports.SituacaoLookup
	atribuicoes    ports.AtribuicaoLookup
	tx             tx.Manager
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *cartoriometrics.Metrics
	tracer         trace.Tracer
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

func WithMetrics(m *cartoriometrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTxManager(m tx.Manager) Option {
	return func(s *Service) {
		s.tx = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func New(store Store, situacoes ports.SituacaoLookup, atribuicoes ports.AtribuicaoLookup, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("cartorio store is required")
	}
	if situacoes == nil {
		return nil, errors.New("situacao lookup is required")
	}
	if atribuicoes == nil {
		return nil, errors.New("atribuicao lookup is required")
	}
	s := &Service{
		store:       store,
		situacoes:   situacoes,
		atribuicoes: atribuicoes,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = tx.NewMemoryManager()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.tracer == nil {
		s.tracer = tracing.Tracer("escriba/cartorio")
	}
	return s, nil
}

// emit publishes after commit. detail carries the linked id for link
// changes and may be empty.
func (s *Service) emit(ctx context.Context, id int, action audit.Action, detail string) {
	if s.auditPublisher == nil {
		return
	}
	entityID := strconv.Itoa(id)
	err := s.auditPublisher.Emit(ctx, audit.Event{
		Entity:   audit.EntityCartorio,
		EntityID: entityID,
		Action:   action,
		Detail:   detail,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"entity", audit.EntityCartorio,
			"entity_id", entityID,
			"action", action,
			"error", err,
		)
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
