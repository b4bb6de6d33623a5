package catalog_test

import (
	"testing"

	"orders/internal/core/domain/model/catalog"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("should create product", func(t *testing.T) {
		p, err := catalog.NewProduct(1, "Product 1", 2500)

		require.NoError(t, err)
		assert.Equal(t, int64(1), p.ID())
		assert.Equal(t, "Product 1", p.Name())
		assert.Equal(t, kernel.Cents(2500), p.Price())
		assert.NoError(t, p.Validate())
	})

	t.Run("should collect every validation failure", func(t *testing.T) {
		_, err := catalog.NewProduct(0, " ", -1)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject zero value and nil", func(t *testing.T) {
		var zero catalog.Product
		var nilProduct *catalog.Product

		assert.Equal(t, catalog.ErrProductIsNotConstructed, zero.Validate())
		assert.Equal(t, catalog.ErrProductIsNotConstructed, nilProduct.Validate())
	})
}
