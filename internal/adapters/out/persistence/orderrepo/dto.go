// Package orderrepo persists the Order aggregate and its line items with GORM.
package orderrepo

import (
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
)

// OrderDTO is the orders row. Status is stored by name so reporting queries can
// group on it directly.
type OrderDTO struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	UserID     int64  `gorm:"not null;index"`
	Status     string `gorm:"size:16;not null;index"`
	TotalCents int64  `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Items []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:RESTRICT"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO keeps the price snapshot taken at order time.
type OrderItemDTO struct {
	ID         int64 `gorm:"primaryKey;autoIncrement"`
	OrderID    int64 `gorm:"not null;index"`
	ProductID  int64 `gorm:"not null;index"`
	Quantity   int   `gorm:"not null"`
	PriceCents int64 `gorm:"not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(o *order.Order) OrderDTO {
	items := o.Items()
	dto := OrderDTO{
		ID:         o.ID(),
		UserID:     o.UserID(),
		Status:     o.Status().String(),
		TotalCents: o.Total().Int64(),
		Items:      make([]OrderItemDTO, 0, len(items)),
	}
	for _, item := range items {
		dto.Items = append(dto.Items, OrderItemDTO{
			OrderID:    o.ID(),
			ProductID:  item.ProductID(),
			Quantity:   item.Quantity(),
			PriceCents: item.Price().Int64(),
		})
	}
	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, err := order.NewItem(itemDTO.ProductID, itemDTO.Quantity, kernel.Cents(itemDTO.PriceCents))
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return order.RestoreOrder(dto.ID, dto.UserID, status, kernel.Cents(dto.TotalCents), items)
}
