package commands_test

import (
	"testing"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestShipOrderCommandHandler_Handle(t *testing.T) {
	t.Run("should ship a paid order", func(t *testing.T) {
		ctx := t.Context()
		f := newTransitionFixture()
		o := restoredOrder(t, order.Paid, 500)

		mock.InOrder(
			f.uow.On("Begin", ctx).Return(nil).Once(),
			f.orders.On("Get", ctx, int64(1)).Return(o, nil).Once(),
			f.orders.On("UpdateStatus", ctx, o, order.Paid).Return(int64(1), nil).Once(),
			f.uow.On("Commit", ctx).Return(nil).Once(),
			f.uow.On("Rollback", ctx).Return(nil).Once(),
		)
		cmd, _ := commands.NewShipOrderCommand(1)

		h := commands.NewShipOrderCommandHandler(f.factory)
		shipped, err := h.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, order.Shipped, shipped.Status())
		f.assert(t)
	})

	t.Run("should refuse to ship an unpaid order", func(t *testing.T) {
		ctx := t.Context()
		f := newTransitionFixture()
		o := restoredOrder(t, order.Created, 500)

		mock.InOrder(
			f.uow.On("Begin", ctx).Return(nil).Once(),
			f.orders.On("Get", ctx, int64(1)).Return(o, nil).Once(),
			f.uow.On("Rollback", ctx).Return(nil).Once(),
		)
		cmd, _ := commands.NewShipOrderCommand(1)

		h := commands.NewShipOrderCommandHandler(f.factory)
		_, err := h.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrInvalidState)
		assert.Contains(t, err.Error(), "requires PAID")
		f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		f.assert(t)
	})

	t.Run("should report a lost update as conflict", func(t *testing.T) {
		ctx := t.Context()
		f := newTransitionFixture()
		o := restoredOrder(t, order.Paid, 500)

		mock.InOrder(
			f.uow.On("Begin", ctx).Return(nil).Once(),
			f.orders.On("Get", ctx, int64(1)).Return(o, nil).Once(),
			f.orders.On("UpdateStatus", ctx, o, order.Paid).Return(int64(0), nil).Once(),
			f.uow.On("Rollback", ctx).Return(nil).Once(),
		)
		cmd, _ := commands.NewShipOrderCommand(1)

		h := commands.NewShipOrderCommandHandler(f.factory)
		_, err := h.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrConflict)
		require.NotErrorIs(t, err, order.ErrAlreadyPaid)
		f.uow.AssertNotCalled(t, "Commit", mock.Anything)
		f.assert(t)
	})
}

func TestCompleteOrderCommandHandler_Handle(t *testing.T) {
	t.Run("should complete once and reject the second call", func(t *testing.T) {
		ctx := t.Context()
		f := newTransitionFixture()
		o := restoredOrder(t, order.Shipped, 500)

		mock.InOrder(
			f.uow.On("Begin", ctx).Return(nil).Once(),
			f.orders.On("Get", ctx, int64(1)).Return(o, nil).Once(),
			f.orders.On("UpdateStatus", ctx, o, order.Shipped).Return(int64(1), nil).Once(),
			f.uow.On("Commit", ctx).Return(nil).Once(),
			f.uow.On("Rollback", ctx).Return(nil).Once(),
		)
		cmd, _ := commands.NewCompleteOrderCommand(1)

		h := commands.NewCompleteOrderCommandHandler(f.factory)
		completed, err := h.Handle(ctx, cmd)
		require.NoError(t, err)
		assert.Equal(t, order.Completed, completed.Status())
		f.assert(t)

		second := newTransitionFixture()
		again := restoredOrder(t, order.Completed, 500)
		mock.InOrder(
			second.uow.On("Begin", ctx).Return(nil).Once(),
			second.orders.On("Get", ctx, int64(1)).Return(again, nil).Once(),
			second.uow.On("Rollback", ctx).Return(nil).Once(),
		)

		h = commands.NewCompleteOrderCommandHandler(second.factory)
		_, err = h.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrInvalidState)
		assert.Equal(t, order.Completed, again.Status())
		second.assert(t)
	})

	t.Run("should reject zero value command without touching the store", func(t *testing.T) {
		factory := new(MockTransitionUoWFactory)
		h := commands.NewCompleteOrderCommandHandler(factory)

		_, err := h.Handle(t.Context(), commands.CompleteOrderCommand{})

		require.ErrorIs(t, err, commands.ErrCompleteOrderCommandIsNotConstructed)
		factory.AssertNotCalled(t, "Create")
	})
}
