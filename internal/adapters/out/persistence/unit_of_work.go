// Package persistence provides the GORM implementation of the unit of work and
// the connection helpers shared by the service and the command line tools.
//
// A unit of work wraps one database transaction. Repositories obtained from it
// after Begin run inside that transaction; before Begin they run in autocommit
// mode against the pool. Aggregates touched by a repository are tracked, and on
// Commit their pending domain events are written to the outbox table in the same
// transaction, so an event exists if and only if its state change committed.
//
// Example:
//
//	factory := persistence.NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	o, err := uow.OrderRepository().Get(ctx, id)
//	...
//	return uow.Commit(ctx)
package persistence

import (
	"context"
	"slices"

	"orders/internal/adapters/out/persistence/catalogrepo"
	"orders/internal/adapters/out/persistence/orderrepo"
	"orders/internal/adapters/out/persistence/outboxrepo"
	"orders/internal/adapters/out/persistence/paymentrepo"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"

	"gorm.io/gorm"
)

type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create returns a fresh unit of work. Instances must not be shared between goroutines.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

type GormUnitOfWork struct {
	db      *gorm.DB
	tx      *gorm.DB
	tracked []kernel.EventSource
}

// Begin is idempotent while a transaction is active.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return errs.NewUnavailableErrorWithCause("begin transaction", tx.Error)
	}

	uow.tx = tx
	uow.tracked = nil
	return nil
}

func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	if err := uow.flushEvents(ctx); err != nil {
		return err
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		return errs.NewUnavailableErrorWithCause("commit transaction", err)
	}

	for _, aggregate := range uow.tracked {
		aggregate.ClearDomainEvents()
	}
	uow.tracked = nil
	return nil
}

func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.tracked = nil
	return err
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) PaymentRepository() ports.PaymentRepository {
	return paymentrepo.NewGormPaymentRepository(uow.conn())
}

func (uow *GormUnitOfWork) ProductRepository() ports.ProductRepository {
	return catalogrepo.NewGormProductRepository(uow.conn())
}

func (uow *GormUnitOfWork) UserRepository() ports.UserRepository {
	return catalogrepo.NewGormUserRepository(uow.conn())
}

func (uow *GormUnitOfWork) OutboxRepository() ports.OutboxRepository {
	return outboxrepo.NewGormOutboxRepository(uow.conn())
}

// TrackAggregate registers an aggregate whose events must be written on commit.
// Tracking the same aggregate twice is a no-op.
func (uow *GormUnitOfWork) TrackAggregate(aggregate kernel.EventSource) {
	if slices.Contains(uow.tracked, aggregate) {
		return
	}
	uow.tracked = append(uow.tracked, aggregate)
}

func (uow *GormUnitOfWork) flushEvents(ctx context.Context) error {
	var events []kernel.DomainEvent
	for _, aggregate := range uow.tracked {
		events = append(events, aggregate.DomainEvents()...)
	}
	return outboxrepo.NewGormOutboxRepository(uow.tx).Add(ctx, events...)
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
