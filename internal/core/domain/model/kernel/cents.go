package kernel

import (
	"math"

	"orders/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Cents is a non-negative amount of money in minor currency units.
// Arithmetic is checked: a result that does not fit in int64 is rejected
// instead of wrapping around.
type Cents int64

// NewCents validates that v is not negative.
func NewCents(v int64) (Cents, error) {
	c := Cents(v)
	if err := c.Validate(); err != nil {
		return 0, err
	}
	return c, nil
}

func (c Cents) Validate() error {
	if c < 0 {
		return errs.NewValueIsOutOfRangeError("cents", int64(c), 0, int64(math.MaxInt64))
	}
	return nil
}

// Add returns c+other.
func (c Cents) Add(other Cents) (Cents, error) {
	if other > 0 && c > math.MaxInt64-other {
		return 0, errs.NewValueIsOutOfRangeError("cents", "sum overflow", 0, int64(math.MaxInt64))
	}
	return c + other, nil
}

// Mul returns c*quantity. quantity must be positive.
func (c Cents) Mul(quantity int) (Cents, error) {
	if quantity <= 0 {
		return 0, errs.NewValueIsOutOfRangeError("quantity", quantity, 1, math.MaxInt)
	}
	if c > 0 && int64(quantity) > math.MaxInt64/int64(c) {
		return 0, errs.NewValueIsOutOfRangeError("cents", "product overflow", 0, int64(math.MaxInt64))
	}
	return c * Cents(quantity), nil
}

func (c Cents) Int64() int64 {
	return int64(c)
}

// Decimal converts to major units, e.g. 1300 -> 13.00.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}
