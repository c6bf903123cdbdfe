// Package kafka publishes audit events to a Kafka topic with franz-go. Each
// record is keyed by entity and id so one entity's events stay ordered
// within a partition.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "escriba/pkg/platform/audit"
)

// Store produces audit events synchronously.
type Store struct {
	client *kgo.Client
	topic  string
}

// Option configures the Store.
type Option func(*options)

type options struct {
	partitions  int32
	replication int16
	linger      time.Duration
}

// WithTopicLayout sets partitions and replication used when the topic is
// created.
func WithTopicLayout(partitions int32, replication int16) Option {
	return func(o *options) {
		o.partitions = partitions
		o.replication = replication
	}
}

// WithLinger sets how long the producer waits to batch records.
func WithLinger(d time.Duration) Option {
	return func(o *options) {
		o.linger = d
	}
}

// New connects to brokers and makes sure topic exists.
func New(ctx context.Context, brokers []string, topic string, opts ...Option) (*Store, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	o := options{partitions: 3, replication: 1, linger: 5 * time.Millisecond}
	for _, opt := range opts {
		opt(&o)
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerLinger(o.linger),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}

	if err := ensureTopic(ctx, kadm.NewClient(client), topic, o.partitions, o.replication); err != nil {
		client.Close()
		return nil, err
	}
	return &Store{client: client, topic: topic}, nil
}

func ensureTopic(ctx context.Context, admin *kadm.Client, topic string, partitions int32, replication int16) error {
	resp, err := admin.CreateTopics(ctx, partitions, replication, nil, topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	for _, r := range resp.Sorted() {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

// Append produces e and waits for the broker acknowledgement.
func (s *Store) Append(ctx context.Context, e audit.Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	rec := &kgo.Record{
		Topic: s.topic,
		Key:   RecordKey(e),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "action", Value: []byte(e.Action)},
		},
	}
	if err := s.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// Health pings the brokers.
func (s *Store) Health(ctx context.Context) error {
	return s.client.Ping(ctx)
}

// Close flushes buffered records and closes the client.
func (s *Store) Close() {
	s.client.Close()
}

// RecordKey is entity:id.
func RecordKey(e audit.Event) []byte {
	return []byte(string(e.Entity) + ":" + e.EntityID)
}
