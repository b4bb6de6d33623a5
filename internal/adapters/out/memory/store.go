// Package memory is an in-process implementation of the order store. It keeps
// the transactional contract of the SQL store: writes are staged per unit of
// work and become visible together at commit, and the conditional status update
// holds a per-order row lock until the unit ends, so concurrent transitions of
// one order serialize exactly as they do on PostgreSQL.
//
// Data lives only as long as the process. It backs isolated tests and local runs
// with DB_DRIVER=memory.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"orders/internal/core/domain/model/catalog"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"
)

type userRow struct {
	id    int64
	email string
	role  string
}

type productRow struct {
	id    int64
	name  string
	price kernel.Cents
}

type orderRow struct {
	id        int64
	userID    int64
	status    order.Status
	total     kernel.Cents
	items     []order.Item
	createdAt time.Time
	updatedAt time.Time
}

type paymentRow struct {
	reference kernel.UUID
	orderID   int64
	amount    kernel.Cents
	paidAt    time.Time
}

type outboxRow struct {
	message ports.OutboxMessage
	sentAt  *time.Time
}

type Store struct {
	mu sync.RWMutex

	users    map[int64]userRow
	products map[int64]productRow
	orders   map[int64]orderRow
	// payments are keyed by order id, which makes the store unique on order_id
	payments map[int64]paymentRow
	outbox   []outboxRow

	userSeq    int64
	productSeq int64
	orderSeq   int64
	outboxSeq  int64

	// orderLocks are one-slot semaphores, one per order row
	orderLocks map[int64]chan struct{}
	outboxLock chan struct{}
}

func New() *Store {
	return &Store{
		users:      make(map[int64]userRow),
		products:   make(map[int64]productRow),
		orders:     make(map[int64]orderRow),
		payments:   make(map[int64]paymentRow),
		outbox:     make([]outboxRow, 0),
		orderLocks: make(map[int64]chan struct{}),
		outboxLock: make(chan struct{}, 1),
	}
}

// AddUser inserts a user and returns its id.
func (s *Store) AddUser(email, role string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.userSeq++
	s.users[s.userSeq] = userRow{id: s.userSeq, email: email, role: role}
	return s.userSeq
}

// AddProduct inserts a product and returns its id.
func (s *Store) AddProduct(name string, price kernel.Cents) (int64, error) {
	if err := price.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.productSeq++
	s.products[s.productSeq] = productRow{id: s.productSeq, name: name, price: price}
	return s.productSeq, nil
}

// SeedCatalog inserts users and products with deterministic synthetic values.
func (s *Store) SeedCatalog(users, products int) (userIDs, productIDs []int64) {
	for i := range users {
		userIDs = append(userIDs, s.AddUser(fmt.Sprintf("user%06d@example.com", i+1), "customer"))
	}
	for i := range products {
		id, _ := s.AddProduct(fmt.Sprintf("Product %d", i+1), kernel.Cents(100+(i*397)%9901))
		productIDs = append(productIDs, id)
	}
	return userIDs, productIDs
}

func (s *Store) lockOrder(ctx context.Context, orderID int64) error {
	s.mu.Lock()
	lock, ok := s.orderLocks[orderID]
	if !ok {
		lock = make(chan struct{}, 1)
		s.orderLocks[orderID] = lock
	}
	s.mu.Unlock()

	select {
	case lock <- struct{}{}:
		return nil
	case <-ctx.Done():
		return errs.NewUnavailableErrorWithCause("lock order", ctx.Err())
	}
}

func (s *Store) unlockOrder(orderID int64) {
	s.mu.RLock()
	lock := s.orderLocks[orderID]
	s.mu.RUnlock()
	<-lock
}

func (s *Store) lockOutbox(ctx context.Context) error {
	select {
	case s.outboxLock <- struct{}{}:
		return nil
	case <-ctx.Done():
		return errs.NewUnavailableErrorWithCause("lock outbox", ctx.Err())
	}
}

func (s *Store) unlockOutbox() {
	<-s.outboxLock
}

func (s *Store) nextOrderID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderSeq++
	return s.orderSeq
}

func (s *Store) order(id int64) (orderRow, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.orders[id]
	return row, ok
}

func (s *Store) payment(orderID int64) (paymentRow, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.payments[orderID]
	return row, ok
}

func (s *Store) product(id int64) (*catalog.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.products[id]
	if !ok {
		return nil, false
	}
	p, err := catalog.NewProduct(row.id, row.name, row.price)
	if err != nil {
		return nil, false
	}
	return p, true
}

func (s *Store) userExists(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[id]
	return ok
}

// pendingOutbox lists unsent messages in insertion order, skipping ids in exclude.
func (s *Store) pendingOutbox(limit int, exclude map[int64]time.Time) []ports.OutboxMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := make([]ports.OutboxMessage, 0, limit)
	for _, row := range s.outbox {
		if len(messages) == limit {
			break
		}
		if row.sentAt != nil {
			continue
		}
		if _, staged := exclude[row.message.ID]; staged {
			continue
		}
		m := row.message
		m.Payload = slices.Clone(m.Payload)
		messages = append(messages, m)
	}
	return messages
}

// apply publishes a unit's staged writes atomically. Payments are re-checked
// against committed rows so that uniqueness holds even if the row lock was bypassed.
func (s *Store) apply(t *txState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for orderID := range t.payments {
		if _, exists := s.payments[orderID]; exists {
			return fmt.Errorf("order %d: %w", orderID, order.ErrAlreadyPaid)
		}
	}

	for id, row := range t.orders {
		s.orders[id] = row
	}
	for orderID, row := range t.payments {
		s.payments[orderID] = row
	}
	for _, m := range t.outbox {
		s.outboxSeq++
		m.ID = s.outboxSeq
		s.outbox = append(s.outbox, outboxRow{message: m})
	}
	for i := range s.outbox {
		if sentAt, ok := t.sent[s.outbox[i].message.ID]; ok {
			s.outbox[i].sentAt = &sentAt
		}
	}
	return nil
}
