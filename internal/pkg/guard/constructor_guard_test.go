package guard_test

import (
	"errors"
	"testing"

	"orders/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConstructorGuard(t *testing.T) {
	t.Run("creates_properly_constructed_guard", func(t *testing.T) {
		// When
		guard := guard.NewConstructorGuard()

		// Then
		assert.NotNil(t, guard)

		// Test with custom error
		customError := errors.New("test object not constructed")
		require.NoError(t, guard.Validate(customError))

		// Test with nil error (should use default)
		require.NoError(t, guard.Validate(nil))
	})
}

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("properly_constructed_guard_returns_nil", func(t *testing.T) {
		// Given
		guard := guard.NewConstructorGuard()
		customError := errors.New("not constructed")

		// When
		err := guard.Validate(customError)

		// Then
		require.NoError(t, err)
	})

	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		// Given
		var guard guard.ConstructorGuard // zero value
		expectedError := errors.New("entity not constructed")

		// When
		err := guard.Validate(expectedError)

		// Then
		require.Error(t, err)
		assert.Equal(t, expectedError, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard // zero value

		// When
		err := g.Validate(nil)

		// Then
		require.Error(t, err)
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}

func TestConstructorGuard_EmbeddedInCommand(t *testing.T) {
	errCommandNotConstructed := errors.New("ShipOrderCommand must be created via NewShipOrderCommand")

	type shipOrderCommand struct {
		guard   guard.ConstructorGuard
		orderID int64
	}

	newShipOrderCommand := func(orderID int64) (shipOrderCommand, error) {
		if orderID <= 0 {
			return shipOrderCommand{}, errors.New("order id must be positive")
		}
		return shipOrderCommand{guard: guard.NewConstructorGuard(), orderID: orderID}, nil
	}

	t.Run("constructed_command_is_valid", func(t *testing.T) {
		cmd, err := newShipOrderCommand(7)

		require.NoError(t, err)
		require.NoError(t, cmd.guard.Validate(errCommandNotConstructed))
		assert.Equal(t, int64(7), cmd.orderID)
	})

	t.Run("zero_value_command_is_rejected", func(t *testing.T) {
		var cmd shipOrderCommand

		assert.Equal(t, errCommandNotConstructed, cmd.guard.Validate(errCommandNotConstructed))
	})
}
