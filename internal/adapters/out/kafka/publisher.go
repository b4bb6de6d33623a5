// Package kafka publishes relayed outbox messages to a Kafka topic. Messages are
// keyed by order id, so every event of one order lands on the same partition and
// consumers see them in commit order.
package kafka

import (
	"context"
	"strings"

	"orders/internal/core/ports"
	"orders/internal/pkg/errs"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	writer messageWriter
}

// NewPublisher writes to topic on the comma separated broker list.
func NewPublisher(brokersCSV, topic string) (*Publisher, error) {
	brokers := Brokers(brokersCSV)
	if len(brokers) == 0 {
		return nil, errs.NewValueIsRequiredError("brokers")
	}
	if strings.TrimSpace(topic) == "" {
		return nil, errs.NewValueIsRequiredError("topic")
	}

	return newPublisher(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}), nil
}

func newPublisher(writer messageWriter) *Publisher {
	return &Publisher{writer: writer}
}

// Publish writes the batch in one request. On failure nothing is marked sent
// and the relay retries the whole batch; consumers dedupe on the event-id header.
func (p *Publisher) Publish(ctx context.Context, messages []ports.OutboxMessage) error {
	if len(messages) == 0 {
		return nil
	}

	batch := make([]kafka.Message, 0, len(messages))
	for _, m := range messages {
		batch = append(batch, kafka.Message{
			Key:   []byte(m.Key),
			Value: m.Payload,
			Time:  m.OccurredAt,
			Headers: []kafka.Header{
				{Key: "event-id", Value: []byte(m.EventID.String())},
				{Key: "event-name", Value: []byte(m.Name)},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, batch...); err != nil {
		return errs.NewUnavailableErrorWithCause("publish to kafka", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// Brokers splits a comma separated broker list, dropping blanks.
func Brokers(csv string) []string {
	brokers := []string{}
	for _, b := range strings.Split(csv, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

var _ ports.EventPublisher = (*Publisher)(nil)
