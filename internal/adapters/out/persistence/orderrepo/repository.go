package orderrepo

import (
	"context"
	"errors"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository. It is bound to the
// transaction of the unit of work that created it.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(aggregate kernel.EventSource)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the order row and its item rows, then hands the generated id to the aggregate.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if aggregate.ID() != 0 {
		return errs.NewValueIsInvalidError("order is already persisted")
	}

	dto := fromDomain(aggregate)
	// items are written by GORM's has-many association in the same statement batch
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return errs.NewUnavailableErrorWithCause("insert order", err)
	}

	if err := aggregate.AssignID(dto.ID); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate)
	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id int64) (*order.Order, error) {
	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&dto, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id)
		}
		return nil, errs.NewUnavailableErrorWithCause("get order", err)
	}

	return toDomain(dto)
}

// UpdateStatus is the compare-and-set used by every transition:
//
//	UPDATE orders SET status = <next> WHERE id = ? AND status = <expected>
//
// The row lock taken by the update serializes concurrent transitions of the same
// order; the loser re-evaluates the predicate after the winner commits and sees 0 rows.
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, aggregate *order.Order, expected order.Status) (int64, error) {
	if err := aggregate.Validate(); err != nil {
		return 0, err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ?", aggregate.ID(), expected.String()).
		Updates(map[string]any{
			"status":     aggregate.Status().String(),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, errs.NewUnavailableErrorWithCause("update order status", result.Error)
	}

	if result.RowsAffected == 1 {
		r.tracker.TrackAggregate(aggregate)
	}
	return result.RowsAffected, nil
}
