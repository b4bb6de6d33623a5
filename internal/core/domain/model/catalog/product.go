// Package catalog holds the read side of products as the order lifecycle sees them:
// an identifier, a display name and the current price.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

var ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct")

// Product is the catalog entry consulted once, when an order is priced.
type Product struct {
	id    int64
	name  string
	price kernel.Cents
	guard guard.ConstructorGuard
}

func NewProduct(id int64, name string, price kernel.Cents) (*Product, error) {
	var errID, errName error
	if id <= 0 {
		errID = errs.NewValueIsInvalidErrorWithCause("productId", fmt.Errorf("%d is not greater than 0", id))
	}
	if strings.TrimSpace(name) == "" {
		errName = errs.NewValueIsRequiredError("name")
	}
	if err := errors.Join(errID, errName, price.Validate()); err != nil {
		return nil, err
	}

	return &Product{
		id:    id,
		name:  name,
		price: price,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (p *Product) Validate() error {
	if p == nil {
		return ErrProductIsNotConstructed
	}
	return p.guard.Validate(ErrProductIsNotConstructed)
}

func (p *Product) ID() int64 {
	return p.id
}

func (p *Product) Name() string {
	return p.name
}

// Price is the current catalog price in cents.
func (p *Product) Price() kernel.Cents {
	return p.price
}
