package order

import (
	"errors"
	"fmt"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem")

// Item is an immutable line item. price is the product price at the moment the
// order was created and is never refreshed from the catalog.
type Item struct {
	productID int64
	quantity  int
	price     kernel.Cents
	subtotal  kernel.Cents
	guard     guard.ConstructorGuard
}

// NewItem validates a line and computes its subtotal.
//
// Returns:
//   - errs.ValueIsInvalidError for a non-positive product id or quantity
//   - errs.ValueIsOutOfRangeError for a negative price or an overflowing subtotal
func NewItem(productID int64, quantity int, price kernel.Cents) (Item, error) {
	if productID <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("productId", fmt.Errorf("%d is not greater than 0", productID))
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	if err := price.Validate(); err != nil {
		return Item{}, err
	}

	subtotal, err := price.Mul(quantity)
	if err != nil {
		return Item{}, err
	}

	return Item{
		productID: productID,
		quantity:  quantity,
		price:     price,
		subtotal:  subtotal,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

func (i Item) ProductID() int64 {
	return i.productID
}

func (i Item) Quantity() int {
	return i.quantity
}

// Price is the snapshotted unit price.
func (i Item) Price() kernel.Cents {
	return i.price
}

func (i Item) Subtotal() kernel.Cents {
	return i.subtotal
}
