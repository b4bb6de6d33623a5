package commands

import (
	"context"

	"orders/internal/core/ports"
)

type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// PaymentRepoFactory provides access to payment repository within a transaction.
	PaymentRepoFactory interface {
		PaymentRepository() ports.PaymentRepository
	}

	// CatalogRepoFactory provides read access to users and products within a transaction.
	CatalogRepoFactory interface {
		ProductRepository() ports.ProductRepository
		UserRepository() ports.UserRepository
	}

	// OutboxRepoFactory provides access to the outbox within a transaction.
	OutboxRepoFactory interface {
		OutboxRepository() ports.OutboxRepository
	}

	// CreateOrderUoW is used by order creation: catalog reads and the order insert
	// share one transaction.
	CreateOrderUoW interface {
		TxManager
		OrderRepoFactory
		CatalogRepoFactory
	}

	CreateOrderUoWFactory interface {
		Create() CreateOrderUoW
	}

	// TransitionUoW is used by pay, ship and complete.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().Get(ctx, id)
	//   payment, err := o.Pay(amount)
	//   n, err := uow.OrderRepository().UpdateStatus(ctx, o, order.Created)
	//   err = uow.PaymentRepository().Add(ctx, payment)
	//
	//   err = uow.Commit(ctx)
	TransitionUoW interface {
		TxManager
		OrderRepoFactory
		PaymentRepoFactory
	}

	TransitionUoWFactory interface {
		Create() TransitionUoW
	}

	// OutboxUoW is used by the outbox relay.
	OutboxUoW interface {
		TxManager
		OutboxRepoFactory
	}

	OutboxUoWFactory interface {
		Create() OutboxUoW
	}
)

// CreateOrderUoWFactoryFunc lets a plain function serve as a CreateOrderUoWFactory.
type CreateOrderUoWFactoryFunc func() CreateOrderUoW

func (f CreateOrderUoWFactoryFunc) Create() CreateOrderUoW {
	return f()
}

// TransitionUoWFactoryFunc lets a plain function serve as a TransitionUoWFactory.
type TransitionUoWFactoryFunc func() TransitionUoW

func (f TransitionUoWFactoryFunc) Create() TransitionUoW {
	return f()
}

// OutboxUoWFactoryFunc lets a plain function serve as an OutboxUoWFactory.
type OutboxUoWFactoryFunc func() OutboxUoW

func (f OutboxUoWFactoryFunc) Create() OutboxUoW {
	return f()
}
