package ports

import (
	"context"
	"time"

	"orders/internal/core/domain/model/kernel"
)

// OutboxMessage is a serialized domain event waiting to be published.
type OutboxMessage struct {
	ID         int64
	EventID    kernel.UUID
	Name       string
	Key        string
	Payload    []byte
	OccurredAt time.Time
}

// OutboxRepository stores events in the same transaction as the state change
// that produced them.
type OutboxRepository interface {
	Add(ctx context.Context, events ...kernel.DomainEvent) error

	// FetchPending claims up to limit unsent messages, oldest first. Within a
	// transaction the claimed rows are hidden from concurrent relays.
	FetchPending(ctx context.Context, limit int) ([]OutboxMessage, error)

	MarkSent(ctx context.Context, ids []int64, sentAt time.Time) error
}

// EventPublisher delivers outbox messages to the outside world.
type EventPublisher interface {
	Publish(ctx context.Context, messages []OutboxMessage) error
}
