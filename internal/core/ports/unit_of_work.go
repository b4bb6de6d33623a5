package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Repositories obtained after Begin share its transaction; commit makes all of
// their writes and the recorded domain events visible at once, rollback discards them.
// Client code must explicitly manage transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new transaction bound to ctx.
	Begin(ctx context.Context) error

	// Commit writes pending domain events of tracked aggregates to the outbox
	// and commits. Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	PaymentRepository() PaymentRepository
	ProductRepository() ProductRepository
	UserRepository() UserRepository
	OutboxRepository() OutboxRepository
}
