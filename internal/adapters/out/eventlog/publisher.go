// Package eventlog is the publisher used when no broker is configured: relayed
// events are written to the structured log and considered delivered.
package eventlog

import (
	"context"
	"log/slog"

	"orders/internal/core/ports"
)

type Publisher struct {
	logger *slog.Logger
}

func NewPublisher(logger *slog.Logger) *Publisher {
	return &Publisher{logger: logger.With("component", "EventLog")}
}

func (p *Publisher) Publish(ctx context.Context, messages []ports.OutboxMessage) error {
	for _, m := range messages {
		p.logger.InfoContext(ctx, "order event",
			"event_id", m.EventID.String(),
			"event", m.Name,
			"key", m.Key,
			"occurred_at", m.OccurredAt,
			"payload", string(m.Payload),
		)
	}
	return nil
}

var _ ports.EventPublisher = (*Publisher)(nil)
