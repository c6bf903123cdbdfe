// Package publisher emits audit events to a store, either inline or through
// a bounded buffer drained by one background goroutine.
package publisher

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/mssola/useragent"

	audit "escriba/pkg/platform/audit"
	"escriba/pkg/requestcontext"
)

// ErrBufferFull is returned by Emit in async mode when the buffer is full.
// The event is dropped.
var ErrBufferFull = errors.New("audit buffer full")

// ErrClosed is returned by Emit after Close.
var ErrClosed = errors.New("audit publisher closed")

// Publisher enriches events with request metadata and hands them to the
// store.
type Publisher struct {
	store  audit.Store
	logger *slog.Logger

	async  bool
	queue  chan audit.Event
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithAsyncBuffer queues up to size events and appends them in the
// background so a slow sink never delays a response.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.async = true
			p.queue = make(chan audit.Event, size)
		}
	}
}

// WithLogger sets a logger for background append failures.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	if p.async {
		p.done = make(chan struct{})
		go p.run()
	}
	return p
}

// Emit fills Timestamp, RequestID, ClientIP and Agent from ctx when unset,
// then appends or enqueues the event.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}
	if event.Agent == "" {
		event.Agent = DescribeAgent(requestcontext.UserAgent(ctx))
	}

	if !p.async {
		return p.store.Append(ctx, event)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case p.queue <- event:
		return nil
	default:
		return ErrBufferFull
	}
}

// DescribeAgent reduces a raw User-Agent header to "name version (os)".
// Crawlers are prefixed with "bot:".
func DescribeAgent(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	ua := useragent.New(raw)
	name, version := ua.Browser()
	desc := strings.TrimSpace(name + " " + version)
	if desc == "" {
		desc = raw
	}
	if os := ua.OS(); os != "" {
		desc += " (" + os + ")"
	}
	if ua.Bot() {
		desc = "bot:" + desc
	}
	return desc
}

func (p *Publisher) run() {
	defer close(p.done)
	for event := range p.queue {
		// the request that produced the event has already returned
		if err := p.store.Append(context.Background(), event); err != nil {
			p.logger.Error("audit append failed",
				"entity", event.Entity,
				"entity_id", event.EntityID,
				"action", event.Action,
				"request_id", event.RequestID,
				"error", err,
			)
		}
	}
}

// Close stops accepting events and, in async mode, waits until the buffer
// is drained.
func (p *Publisher) Close() {
	if !p.async {
		return
	}
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()
	<-p.done
}
