// Package postgres persists audit events in the audit_events table so the
// trail survives restarts without Kafka.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	audit "escriba/pkg/platform/audit"
	"escriba/pkg/platform/tx"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append inserts the event, joining the caller's transaction when ctx
// carries one.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	query := `
		INSERT INTO audit_events (
			id, occurred_at, entity, entity_id, action,
			detail, request_id, client_ip, agent
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.New(),
		event.Timestamp,
		string(event.Entity),
		event.EntityID,
		string(event.Action),
		nullable(event.Detail),
		nullable(event.RequestID),
		nullable(event.ClientIP),
		nullable(event.Agent),
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByEntity returns the trail of one entity instance, oldest first.
func (s *Store) ListByEntity(ctx context.Context, entity audit.Entity, entityID string) ([]audit.Event, error) {
	query := `
		SELECT occurred_at, entity, entity_id, action, detail, request_id, client_ip, agent
		FROM audit_events
		WHERE entity = $1 AND entity_id = $2
		ORDER BY occurred_at, id
	`
	rows, err := s.db.QueryContext(ctx, query, string(entity), entityID)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ListRecent returns the last limit events, most recent last.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	query := `
		SELECT occurred_at, entity, entity_id, action, detail, request_id, client_ip, agent
		FROM (
			SELECT * FROM audit_events ORDER BY occurred_at DESC, id DESC LIMIT $1
		) recent
		ORDER BY occurred_at, id
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	var events []audit.Event
	for rows.Next() {
		var (
			e                                  audit.Event
			entity, action                     string
			detail, requestID, clientIP, agent sql.NullString
		)
		if err := rows.Scan(&e.Timestamp, &entity, &e.EntityID, &action, &detail, &requestID, &clientIP, &agent); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Entity = audit.Entity(entity)
		e.Action = audit.Action(action)
		e.Detail = detail.String
		e.RequestID = requestID.String
		e.ClientIP = clientIP.String
		e.Agent = agent.String
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
