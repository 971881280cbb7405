package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/2beens/fitgam/internal/telemetry/tracing"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

type topicWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var _ Publisher = (*KafkaPublisher)(nil)

// KafkaPublisher writes each event type to its own topic, <topicPrefix>.<event type>,
// creating the topic writers lazily.
type KafkaPublisher struct {
	brokers     []string
	topicPrefix string
	newWriter   func(topic string) topicWriter

	mu      sync.Mutex
	writers map[string]topicWriter
}

func NewKafkaPublisher(brokers []string, topicPrefix string) *KafkaPublisher {
	p := &KafkaPublisher{
		brokers:     brokers,
		topicPrefix: topicPrefix,
		writers:     make(map[string]topicWriter),
	}
	p.newWriter = p.kafkaWriter
	return p
}

func (p *KafkaPublisher) kafkaWriter(topic string) topicWriter {
	return &kafka.Writer{
		Addr:                   kafka.TCP(p.brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		Compression:            kafka.Snappy,
		AllowAutoTopicCreation: true,
		Async:                  false,
	}
}

func (p *KafkaPublisher) Topic(eventType Type) string {
	return fmt.Sprintf("%s.%s", p.topicPrefix, eventType)
}

// Publish groups the events per topic, events of one user land on the same partition.
func (p *KafkaPublisher) Publish(ctx context.Context, events ...Event) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "events.kafka.publish")
	span.SetAttributes(attribute.Int("events", len(events)))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	batches := make(map[string][]kafka.Message)
	var topics []string
	for _, e := range events {
		value, marshalErr := json.Marshal(e)
		if marshalErr != nil {
			err = multierr.Append(err, fmt.Errorf("marshal event %s: %w", e.Type, marshalErr))
			continue
		}
		topic := p.Topic(e.Type)
		if _, ok := batches[topic]; !ok {
			topics = append(topics, topic)
		}
		batches[topic] = append(batches[topic], kafka.Message{
			Key:   []byte(e.UserID),
			Value: value,
			Time:  e.OccurredAt,
		})
	}

	for _, topic := range topics {
		if writeErr := p.writerForTopic(topic).WriteMessages(ctx, batches[topic]...); writeErr != nil {
			err = multierr.Append(err, fmt.Errorf("write to %s: %w", topic, writeErr))
		}
	}
	return err
}

func (p *KafkaPublisher) writerForTopic(topic string) topicWriter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if writer, ok := p.writers[topic]; ok {
		return writer
	}
	writer := p.newWriter(topic)
	p.writers[topic] = writer
	return writer
}

// Close releases all writers.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	for topic, writer := range p.writers {
		if closeErr := writer.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("close writer %s: %w", topic, closeErr))
		}
		delete(p.writers, topic)
	}
	return err
}
