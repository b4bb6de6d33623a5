package queries

import (
	"errors"

	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

const (
	DefaultRankingLimit = 10
	maxRankingLimit     = 100
)

var (
	ErrGetRevenueQueryIsNotConstructed = errors.New(
		"GetRevenueQuery must be created via NewGetRevenueQuery constructor",
	)
	ErrGetRevenueByUserQueryIsNotConstructed = errors.New(
		"GetRevenueByUserQuery must be created via NewGetRevenueByUserQuery constructor",
	)
	ErrGetOrdersByStatusQueryIsNotConstructed = errors.New(
		"GetOrdersByStatusQuery must be created via NewGetOrdersByStatusQuery constructor",
	)
	ErrGetTopProductsQueryIsNotConstructed = errors.New(
		"GetTopProductsQuery must be created via NewGetTopProductsQuery constructor",
	)
)

// GetRevenueQuery asks for the sum of all payments.
type GetRevenueQuery struct {
	guard guard.ConstructorGuard
}

func NewGetRevenueQuery() GetRevenueQuery {
	return GetRevenueQuery{guard: guard.NewConstructorGuard()}
}

func (q GetRevenueQuery) Validate() error {
	return q.guard.Validate(ErrGetRevenueQueryIsNotConstructed)
}

// GetRevenueByUserQuery asks for the users who paid the most.
type GetRevenueByUserQuery struct {
	limit int
	guard guard.ConstructorGuard
}

// NewGetRevenueByUserQuery accepts limits from 1 to 100; zero selects DefaultRankingLimit.
func NewGetRevenueByUserQuery(limit int) (GetRevenueByUserQuery, error) {
	limit, err := rankingLimit(limit)
	if err != nil {
		return GetRevenueByUserQuery{}, err
	}
	return GetRevenueByUserQuery{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q GetRevenueByUserQuery) Validate() error {
	return q.guard.Validate(ErrGetRevenueByUserQueryIsNotConstructed)
}

func (q GetRevenueByUserQuery) Limit() int {
	return q.limit
}

// GetOrdersByStatusQuery asks for order counts per lifecycle status.
type GetOrdersByStatusQuery struct {
	guard guard.ConstructorGuard
}

func NewGetOrdersByStatusQuery() GetOrdersByStatusQuery {
	return GetOrdersByStatusQuery{guard: guard.NewConstructorGuard()}
}

func (q GetOrdersByStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersByStatusQueryIsNotConstructed)
}

// GetTopProductsQuery asks for the best selling products by quantity.
type GetTopProductsQuery struct {
	limit int
	guard guard.ConstructorGuard
}

// NewGetTopProductsQuery accepts limits from 1 to 100; zero selects DefaultRankingLimit.
func NewGetTopProductsQuery(limit int) (GetTopProductsQuery, error) {
	limit, err := rankingLimit(limit)
	if err != nil {
		return GetTopProductsQuery{}, err
	}
	return GetTopProductsQuery{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q GetTopProductsQuery) Validate() error {
	return q.guard.Validate(ErrGetTopProductsQueryIsNotConstructed)
}

func (q GetTopProductsQuery) Limit() int {
	return q.limit
}

func rankingLimit(limit int) (int, error) {
	if limit == 0 {
		return DefaultRankingLimit, nil
	}
	if limit < 1 || limit > maxRankingLimit {
		return 0, errs.NewValueIsOutOfRangeError("limit", limit, 1, maxRankingLimit)
	}
	return limit, nil
}
