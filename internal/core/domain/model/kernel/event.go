package kernel

import "time"

// DomainEvent is a fact recorded by an aggregate and published after the
// transaction that produced it commits.
type DomainEvent interface {
	EventID() UUID
	EventName() string
	// EventKey groups events of one aggregate so consumers see them in order.
	EventKey() string
	OccurredAt() time.Time
}

// EventSource is implemented by aggregates that record domain events.
type EventSource interface {
	DomainEvents() []DomainEvent
	ClearDomainEvents()
}
