// Package publisher broadcasts confluence signals to downstream consumers.
package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"PatternScout/internal/model"
	"PatternScout/pkg/logger"
)

// SignalEvent is the message published for every new signal.
type SignalEvent struct {
	RunID       string          `json:"run_id"`
	Watch       string          `json:"watch"`
	Symbol      string          `json:"symbol"`
	Timeframe   string          `json:"timeframe"`
	Timestamp   int64           `json:"timestamp"`
	Direction   model.Direction `json:"direction"`
	PublishedAt time.Time       `json:"published_at"`
}

// Events builds one event per signal, keeping their order.
func Events(runID string, w model.Watch, signals []model.Signal, now time.Time) []SignalEvent {
	out := make([]SignalEvent, 0, len(signals))
	for _, s := range signals {
		out = append(out, SignalEvent{
			RunID:       runID,
			Watch:       w.Name,
			Symbol:      w.Symbol,
			Timeframe:   w.Timeframe,
			Timestamp:   s.Timestamp,
			Direction:   s.Direction,
			PublishedAt: now,
		})
	}
	return out
}

// Publisher delivers signal events.
type Publisher interface {
	Publish(ctx context.Context, events []SignalEvent) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a topic, keyed by symbol so that each
// symbol's signals stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	log    *logger.Logger
}

// NewKafkaPublisher creates a synchronous writer for topic.
func NewKafkaPublisher(brokers []string, topic string, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
		topic: topic,
		log:   log.With("component", "kafka_publisher"),
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, events []SignalEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		msgs = append(msgs, kafka.Message{Key: []byte(e.Symbol), Value: data})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		p.log.Errorf("Failed to publish %d signals to %s: %v", len(msgs), p.topic, err)
		return err
	}
	p.log.Debugf("Published %d signals to %s", len(msgs), p.topic)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops every event. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, []SignalEvent) error { return nil }
func (NoopPublisher) Close() error                                 { return nil }
