// Package logsink writes audit events to the structured log. It is always
// installed so the trail survives without a broker.
package logsink

import (
	"context"
	"log/slog"

	audit "escriba/pkg/platform/audit"
)

type Store struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Store {
	return &Store{logger: logger.With("component", "audit")}
}

func (s *Store) Append(ctx context.Context, e audit.Event) error {
	s.logger.InfoContext(ctx, "audit event",
		"entity", e.Entity,
		"entity_id", e.EntityID,
		"action", e.Action,
		"detail", e.Detail,
		"request_id", e.RequestID,
		"client_ip", e.ClientIP,
		"timestamp", e.Timestamp,
	)
	return nil
}
