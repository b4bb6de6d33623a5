package order_test

import (
	"errors"
	"testing"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestorePayment(t *testing.T) {
	t.Run("should restore stored payment", func(t *testing.T) {
		ref := kernel.NewUUID()
		at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

		p, err := order.RestorePayment(ref, 9, 1300, at)

		require.NoError(t, err)
		assert.True(t, ref.IsEqual(p.Reference()))
		assert.Equal(t, int64(9), p.OrderID())
		assert.Equal(t, kernel.Cents(1300), p.Amount())
		assert.Equal(t, at, p.PaidAt())
		assert.NoError(t, p.Validate())
	})

	t.Run("should reject invalid fields", func(t *testing.T) {
		_, err := order.RestorePayment(kernel.UUID{}, 0, -1, time.Time{})

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject nil payment", func(t *testing.T) {
		var p *order.Payment

		assert.Equal(t, order.ErrPaymentIsNotConstructed, p.Validate())
	})
}

func TestErrAlreadyPaid(t *testing.T) {
	t.Run("should classify as conflict", func(t *testing.T) {
		assert.True(t, errors.Is(order.ErrAlreadyPaid, errs.ErrConflict))
		assert.Equal(t, "conflict: order is already paid", order.ErrAlreadyPaid.Error())
	})
}
