package commands

import (
	"errors"
	"fmt"

	"orders/internal/core/domain/services"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a request to create an order for a user from
// requested lines. Prices are not part of the command; they come from the catalog.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(userID, []services.Line{{ProductID: 3, Quantity: 2}})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	o, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	userID int64
	lines  []services.Line

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the user id and every line. All failures are
// reported together.
func NewCreateOrderCommand(userID int64, lines []services.Line) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setUserID(userID),
		cmd.setLines(lines),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) UserID() int64 {
	return c.userID
}

func (c CreateOrderCommand) Lines() []services.Line {
	return append([]services.Line(nil), c.lines...)
}

// ProductIDs returns the distinct product ids referenced by the lines.
func (c CreateOrderCommand) ProductIDs() []int64 {
	seen := make(map[int64]struct{}, len(c.lines))
	ids := make([]int64, 0, len(c.lines))
	for _, line := range c.lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}
	return ids
}

func (c *CreateOrderCommand) setUserID(userID int64) error {
	if userID <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("userId", fmt.Errorf("%d is not greater than 0", userID))
	}
	c.userID = userID
	return nil
}

func (c *CreateOrderCommand) setLines(lines []services.Line) error {
	var problems []error
	for i, line := range lines {
		if line.ProductID <= 0 {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("items[%d].productId", i), fmt.Errorf("%d is not greater than 0", line.ProductID)))
		}
		if line.Quantity <= 0 {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("items[%d].quantity", i), fmt.Errorf("%d is not greater than 0", line.Quantity)))
		}
	}
	if err := errors.Join(problems...); err != nil {
		return err
	}

	c.lines = append([]services.Line(nil), lines...)
	return nil
}
