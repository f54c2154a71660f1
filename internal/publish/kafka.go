// Package publish announces recorded duty events on a message bus so other
// systems (dispatch boards, payroll) can follow trips without polling the API.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/pkordes/duty-logbook/backend/internal/domain"
)

// DefaultTopic is the topic duty events are written to when none is configured.
const DefaultTopic = "duty.events"

// messageWriter is the subset of *kafkago.Writer the publisher uses.
// Tests substitute an in-memory fake.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaPublisher writes each event as one JSON message keyed by trip ID, so
// all events of a trip land on the same partition in order.
type KafkaPublisher struct {
	w     messageWriter
	topic string
}

// NewKafkaPublisher returns a publisher writing to topic on the given brokers.
// The underlying writer connects lazily on the first publish.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return newKafkaPublisher(&kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}, topic)
}

func newKafkaPublisher(w messageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{w: w, topic: topic}
}

// Publish serialises ev in its API wire shape and writes it synchronously.
func (p *KafkaPublisher) Publish(ctx context.Context, ev domain.Event) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("publish.KafkaPublisher.Publish: encode: %w", err)
	}

	msg := kafkago.Message{
		Key:   []byte(ev.TripID.String()),
		Value: value,
		Time:  ev.TS,
		Headers: []kafkago.Header{
			{Key: "event-type", Value: []byte(ev.Type())},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish.KafkaPublisher.Publish: topic %s: %w", p.topic, err)
	}
	return nil
}

// Close flushes pending writes and releases the broker connections.
func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// Nop discards every event. It is used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, domain.Event) error { return nil }
func (Nop) Close() error                                { return nil }
