package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaStore publishes audit events to a Kafka topic. ListByAccount is not
// supported; pair it with an InMemoryStore (or Postgres) when reads are needed.
type KafkaStore struct {
	client *kgo.Client
	topic  string
}

// KafkaConfig holds producer configuration for the audit sink.
type KafkaConfig struct {
	Brokers         string
	Topic           string
	DeliveryTimeout time.Duration
}

// NewKafkaStore creates a Kafka-backed audit sink.
func NewKafkaStore(cfg KafkaConfig) (*KafkaStore, error) {
	if cfg.Brokers == "" {
		return nil, fmt.Errorf("kafka brokers not configured")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka audit topic not configured")
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(strings.Split(cfg.Brokers, ",")...),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerLinger(5 * time.Millisecond),
		kgo.AllowAutoTopicCreation(),
	}
	if cfg.DeliveryTimeout > 0 {
		opts = append(opts, kgo.RecordDeliveryTimeout(cfg.DeliveryTimeout))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	return &KafkaStore{client: client, topic: cfg.Topic}, nil
}

type kafkaEvent struct {
	Timestamp string `json:"timestamp"`
	Principal string `json:"principal,omitempty"`
	AccountID string `json:"account_id,omitempty"`
	Action    string `json:"action"`
	Reason    string `json:"reason,omitempty"`
}

func (s *KafkaStore) Append(ctx context.Context, event Event) error {
	value, err := json.Marshal(kafkaEvent{
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339Nano),
		Principal: event.Principal,
		AccountID: event.AccountID,
		Action:    event.Action,
		Reason:    event.Reason,
	})
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.AccountID),
		Value: value,
	}
	// Keyed by account so per-account ordering is preserved within a partition.
	return s.client.ProduceSync(ctx, record).FirstErr()
}

func (s *KafkaStore) ListByAccount(_ context.Context, _ string) ([]Event, error) {
	return nil, fmt.Errorf("kafka audit sink is write-only")
}

// Close flushes buffered records and releases the producer.
func (s *KafkaStore) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.client.Flush(ctx)
	s.client.Close()
}
