// Package paymentrepo persists payments. The unique index on order_id is the
// store-level guarantee that an order is never paid twice.
package paymentrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentDTO struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Reference   uuid.UUID `gorm:"size:36;not null;uniqueIndex"`
	OrderID     int64     `gorm:"not null;uniqueIndex"`
	AmountCents int64     `gorm:"not null"`
	CreatedAt   time.Time
}

func (PaymentDTO) TableName() string {
	return "payments"
}

type GormPaymentRepository struct {
	db *gorm.DB
}

func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

func (r *GormPaymentRepository) Add(ctx context.Context, payment *order.Payment) error {
	if err := payment.Validate(); err != nil {
		return err
	}

	dto := PaymentDTO{
		Reference:   payment.Reference().Raw(),
		OrderID:     payment.OrderID(),
		AmountCents: payment.Amount().Int64(),
		CreatedAt:   payment.PaidAt(),
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("order %d: %w", payment.OrderID(), order.ErrAlreadyPaid)
		}
		return errs.NewUnavailableErrorWithCause("insert payment", err)
	}
	return nil
}

func (r *GormPaymentRepository) GetByOrderID(ctx context.Context, orderID int64) (*order.Payment, error) {
	var dtos []PaymentDTO
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Limit(1).Find(&dtos).Error; err != nil {
		return nil, errs.NewUnavailableErrorWithCause("get payment", err)
	}
	if len(dtos) == 0 {
		return nil, nil //nolint:nilnil // absence is not an error for payments
	}

	dto := dtos[0]
	ref, err := kernel.UUIDFromString(dto.Reference.String())
	if err != nil {
		return nil, err
	}
	return order.RestorePayment(ref, dto.OrderID, kernel.Cents(dto.AmountCents), dto.CreatedAt)
}
