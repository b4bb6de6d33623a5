package services

import (
	"orders/internal/core/domain/model/catalog"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"
)

// Line is one requested (product, quantity) pair.
type Line struct {
	ProductID int64
	Quantity  int
}

// OrderPricer turns requested lines into a priced order.
//
// Business rules:
//   - every line resolves to a catalog product, otherwise the order is rejected as not found
//   - the catalog price is copied into the line item and never consulted again
//   - the same product may appear on several lines; each line is priced on its own
//
// Example usage:
//
//	pricer := services.NewOrderPricer()
//	o, err := pricer.Price(userID, lines, products)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // unknown product id
//	}
type OrderPricer struct{}

func NewOrderPricer() OrderPricer {
	return OrderPricer{}
}

// Price creates the order for userID. products must contain every product the
// lines reference; extra products are ignored.
func (p OrderPricer) Price(userID int64, lines []Line, products []*catalog.Product) (*order.Order, error) {
	byID := make(map[int64]*catalog.Product, len(products))
	for _, product := range products {
		if err := product.Validate(); err != nil {
			return nil, err
		}
		byID[product.ID()] = product
	}

	items := make([]order.Item, 0, len(lines))
	for _, line := range lines {
		product, ok := byID[line.ProductID]
		if !ok {
			return nil, errs.NewObjectNotFoundError("product", line.ProductID)
		}

		item, err := order.NewItem(product.ID(), line.Quantity, product.Price())
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return order.NewOrder(userID, items)
}
