package ports

import (
	"context"

	"orders/internal/core/domain/model/catalog"
)

type ProductRepository interface {
	// Get returns errs.ObjectNotFoundError for an unknown id.
	Get(ctx context.Context, id int64) (*catalog.Product, error)

	// GetMany returns the products that exist among ids, in no particular order.
	GetMany(ctx context.Context, ids []int64) ([]*catalog.Product, error)
}

type UserRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
}
