package commands

import (
	"context"
	"fmt"

	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"
)

// advanceOrder runs a payload-free transition inside its own unit of work:
// load, check against the transition table, conditional update, commit.
// A zero-row update means a concurrent transition won and is reported as a conflict.
func advanceOrder(
	ctx context.Context,
	uowFactory TransitionUoWFactory,
	orderID int64,
	transition order.Transition,
) (*order.Order, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()

	o, err := orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	expected := o.Status()
	if err = o.Advance(transition); err != nil {
		return nil, err
	}

	affected, err := orders.UpdateStatus(ctx, o, expected)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, errs.NewConflictErrorWithCause(
			"order", orderID,
			fmt.Errorf("status changed from %s before %s could be applied", expected, transition),
		)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
