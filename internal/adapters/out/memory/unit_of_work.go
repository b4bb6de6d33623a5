package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"orders/internal/core/domain/model/catalog"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"
)

var ErrNoTransaction = errors.New("no active transaction")

// txState holds the writes of one unit until commit.
type txState struct {
	orders   map[int64]orderRow
	payments map[int64]paymentRow
	outbox   []ports.OutboxMessage
	sent     map[int64]time.Time

	lockedOrders []int64
	outboxLocked bool
}

func newTxState() *txState {
	return &txState{
		orders:   make(map[int64]orderRow),
		payments: make(map[int64]paymentRow),
		sent:     make(map[int64]time.Time),
	}
}

type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

type UnitOfWork struct {
	store   *Store
	tx      *txState
	tracked []kernel.EventSource
}

func (u *UnitOfWork) Begin(_ context.Context) error {
	if u.tx != nil {
		return nil
	}
	u.tx = newTxState()
	u.tracked = nil
	return nil
}

func (u *UnitOfWork) Commit(_ context.Context) error {
	if u.tx == nil {
		return ErrNoTransaction
	}
	t := u.tx
	u.tx = nil
	defer u.release(t)

	for _, aggregate := range u.tracked {
		messages, err := outboxMessages(aggregate.DomainEvents())
		if err != nil {
			return err
		}
		t.outbox = append(t.outbox, messages...)
	}

	if err := u.store.apply(t); err != nil {
		return err
	}

	for _, aggregate := range u.tracked {
		aggregate.ClearDomainEvents()
	}
	u.tracked = nil
	return nil
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	if u.tx == nil {
		return ErrNoTransaction
	}
	u.release(u.tx)
	u.tx = nil
	u.tracked = nil
	return nil
}

func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &orderRepository{uow: u}
}

func (u *UnitOfWork) PaymentRepository() ports.PaymentRepository {
	return &paymentRepository{uow: u}
}

func (u *UnitOfWork) ProductRepository() ports.ProductRepository {
	return &productRepository{store: u.store}
}

func (u *UnitOfWork) UserRepository() ports.UserRepository {
	return &userRepository{store: u.store}
}

func (u *UnitOfWork) OutboxRepository() ports.OutboxRepository {
	return &outboxRepository{uow: u}
}

func (u *UnitOfWork) track(aggregate kernel.EventSource) {
	if slices.Contains(u.tracked, aggregate) {
		return
	}
	u.tracked = append(u.tracked, aggregate)
}

// within runs fn in the active unit, or in a single-statement unit that
// commits immediately when none was begun.
func (u *UnitOfWork) within(fn func(t *txState) error) error {
	if u.tx != nil {
		return fn(u.tx)
	}

	t := newTxState()
	defer u.release(t)
	if err := fn(t); err != nil {
		return err
	}
	return u.store.apply(t)
}

func (u *UnitOfWork) release(t *txState) {
	for _, id := range t.lockedOrders {
		u.store.unlockOrder(id)
	}
	t.lockedOrders = nil
	if t.outboxLocked {
		u.store.unlockOutbox()
		t.outboxLocked = false
	}
}

func (u *UnitOfWork) currentOrder(t *txState, id int64) (orderRow, bool) {
	if row, ok := t.orders[id]; ok {
		return row, true
	}
	return u.store.order(id)
}

type orderRepository struct {
	uow *UnitOfWork
}

func (r *orderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if aggregate.ID() != 0 {
		return errs.NewValueIsInvalidError("order is already persisted")
	}

	return r.uow.within(func(t *txState) error {
		if err := aggregate.AssignID(r.uow.store.nextOrderID()); err != nil {
			return err
		}
		now := time.Now().UTC()
		t.orders[aggregate.ID()] = orderRow{
			id:        aggregate.ID(),
			userID:    aggregate.UserID(),
			status:    aggregate.Status(),
			total:     aggregate.Total(),
			items:     aggregate.Items(),
			createdAt: now,
			updatedAt: now,
		}
		r.uow.track(aggregate)
		return nil
	})
}

func (r *orderRepository) Get(_ context.Context, id int64) (*order.Order, error) {
	var o *order.Order
	err := r.uow.within(func(t *txState) error {
		row, ok := r.uow.currentOrder(t, id)
		if !ok {
			return errs.NewObjectNotFoundError("order", id)
		}
		var err error
		o, err = order.RestoreOrder(row.id, row.userID, row.status, row.total, row.items)
		return err
	})
	return o, err
}

// UpdateStatus takes the order's row lock and keeps it until the unit ends.
func (r *orderRepository) UpdateStatus(ctx context.Context, aggregate *order.Order, expected order.Status) (int64, error) {
	if err := aggregate.Validate(); err != nil {
		return 0, err
	}

	var affected int64
	err := r.uow.within(func(t *txState) error {
		id := aggregate.ID()
		if !slices.Contains(t.lockedOrders, id) {
			if err := r.uow.store.lockOrder(ctx, id); err != nil {
				return err
			}
			t.lockedOrders = append(t.lockedOrders, id)
		}

		row, ok := r.uow.currentOrder(t, id)
		if !ok || row.status != expected {
			return nil
		}

		row.status = aggregate.Status()
		row.updatedAt = time.Now().UTC()
		t.orders[id] = row
		affected = 1
		r.uow.track(aggregate)
		return nil
	})
	return affected, err
}

type paymentRepository struct {
	uow *UnitOfWork
}

func (r *paymentRepository) Add(_ context.Context, payment *order.Payment) error {
	if err := payment.Validate(); err != nil {
		return err
	}

	return r.uow.within(func(t *txState) error {
		_, staged := t.payments[payment.OrderID()]
		_, committed := r.uow.store.payment(payment.OrderID())
		if staged || committed {
			return fmt.Errorf("order %d: %w", payment.OrderID(), order.ErrAlreadyPaid)
		}
		t.payments[payment.OrderID()] = paymentRow{
			reference: payment.Reference(),
			orderID:   payment.OrderID(),
			amount:    payment.Amount(),
			paidAt:    payment.PaidAt(),
		}
		return nil
	})
}

func (r *paymentRepository) GetByOrderID(_ context.Context, orderID int64) (*order.Payment, error) {
	var payment *order.Payment
	err := r.uow.within(func(t *txState) error {
		row, ok := t.payments[orderID]
		if !ok {
			row, ok = r.uow.store.payment(orderID)
		}
		if !ok {
			return nil
		}
		var err error
		payment, err = order.RestorePayment(row.reference, row.orderID, row.amount, row.paidAt)
		return err
	})
	return payment, err
}

type productRepository struct {
	store *Store
}

func (r *productRepository) Get(_ context.Context, id int64) (*catalog.Product, error) {
	p, ok := r.store.product(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("product", id)
	}
	return p, nil
}

func (r *productRepository) GetMany(_ context.Context, ids []int64) ([]*catalog.Product, error) {
	products := make([]*catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.store.product(id); ok {
			products = append(products, p)
		}
	}
	return products, nil
}

type userRepository struct {
	store *Store
}

func (r *userRepository) Exists(_ context.Context, id int64) (bool, error) {
	return r.store.userExists(id), nil
}

type outboxRepository struct {
	uow *UnitOfWork
}

func (r *outboxRepository) Add(_ context.Context, events ...kernel.DomainEvent) error {
	messages, err := outboxMessages(events)
	if err != nil {
		return err
	}
	return r.uow.within(func(t *txState) error {
		t.outbox = append(t.outbox, messages...)
		return nil
	})
}

// FetchPending holds the outbox lock until the unit ends, so concurrent relays
// never claim the same message.
func (r *outboxRepository) FetchPending(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	var messages []ports.OutboxMessage
	err := r.uow.within(func(t *txState) error {
		if !t.outboxLocked {
			if err := r.uow.store.lockOutbox(ctx); err != nil {
				return err
			}
			t.outboxLocked = true
		}
		messages = r.uow.store.pendingOutbox(limit, t.sent)
		return nil
	})
	return messages, err
}

func (r *outboxRepository) MarkSent(_ context.Context, ids []int64, sentAt time.Time) error {
	return r.uow.within(func(t *txState) error {
		for _, id := range ids {
			t.sent[id] = sentAt
		}
		return nil
	})
}

func outboxMessages(events []kernel.DomainEvent) ([]ports.OutboxMessage, error) {
	messages := make([]ports.OutboxMessage, 0, len(events))
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return nil, err
		}
		messages = append(messages, ports.OutboxMessage{
			EventID:    event.EventID(),
			Name:       event.EventName(),
			Key:        event.EventKey(),
			Payload:    payload,
			OccurredAt: event.OccurredAt(),
		})
	}
	return messages, nil
}
