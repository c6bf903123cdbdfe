// Package audit records who changed which registry entry. Services emit one
// Event per committed mutation; stores fan it out to the log and, when
// configured, to Kafka.
package audit

import (
	"context"
	"errors"
	"time"
)

// Entity names the registry resource an event is about.
type Entity string

const (
	EntitySituacao   Entity = "situacao"
	EntityAtribuicao Entity = "atribuicao"
	EntityCartorio   Entity = "cartorio"
)

// Action is what happened to the entity.
type Action string

const (
	ActionCreated           Action = "created"
	ActionUpdated           Action = "updated"
	ActionDeleted           Action = "deleted"
	ActionActivated         Action = "activated"
	ActionDeactivated       Action = "deactivated"
	ActionSituacaoChanged   Action = "situacao_changed"
	ActionAtribuicaoAdded   Action = "atribuicao_added"
	ActionAtribuicaoRemoved Action = "atribuicao_removed"
)

// Event is emitted from service logic after a mutation commits. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Entity    Entity    `json:"entity"`
	EntityID  string    `json:"entity_id"`
	Action    Action    `json:"action"`
	// Detail holds the related id for link changes, e.g. the attribution
	// added to a cartório.
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	ClientIP  string `json:"client_ip,omitempty"`
	// Agent summarises the caller's User-Agent as "browser version (os)".
	Agent string `json:"agent,omitempty"`
}

// Store is an append-only sink for events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Fanout appends to every store and joins their errors. A failing sink does
// not stop the others.
type Fanout []Store

func (f Fanout) Append(ctx context.Context, event Event) error {
	var errs []error
	for _, s := range f {
		if s == nil {
			continue
		}
		if err := s.Append(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
