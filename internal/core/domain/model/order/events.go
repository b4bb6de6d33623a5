package order

import (
	"strconv"
	"time"

	"orders/internal/core/domain/model/kernel"
)

// StatusChanged is recorded when an order is created (From is Unknown) and on
// every transition. It is serialized as the outbox payload.
type StatusChanged struct {
	ID         kernel.UUID  `json:"eventId"`
	OrderID    int64        `json:"orderId"`
	UserID     int64        `json:"userId"`
	From       Status       `json:"from,omitempty"`
	To         Status       `json:"to"`
	TotalCents kernel.Cents `json:"totalCents"`
	At         time.Time    `json:"occurredAt"`
}

var eventNames = map[Status]string{
	Created:   "order.created",
	Paid:      "order.paid",
	Shipped:   "order.shipped",
	Completed: "order.completed",
}

func (e StatusChanged) EventID() kernel.UUID {
	return e.ID
}

func (e StatusChanged) EventName() string {
	if name, ok := eventNames[e.To]; ok {
		return name
	}
	return "order.changed"
}

func (e StatusChanged) EventKey() string {
	return strconv.FormatInt(e.OrderID, 10)
}

func (e StatusChanged) OccurredAt() time.Time {
	return e.At
}
