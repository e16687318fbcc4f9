package domain_test

import (
	"strings"
	"testing"

	"github.com/stackpay/paygate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	t.Run("creates order with computed total", func(t *testing.T) {
		order, err := domain.NewOrder("order-1", usd(t, "80.00"), usd(t, "8.00"), usd(t, "12.00"), "buyer@example.com", "Ada Lovelace")

		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusPending, order.Status)
		assert.Equal(t, "100.00", order.Total.StringFixed())
		assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
		assert.Len(t, order.OrderNumber, 12)
		assert.Equal(t, order.OrderNumber, strings.ToUpper(order.OrderNumber))
	})

	t.Run("rejects mixed currencies", func(t *testing.T) {
		eur, err := domain.MoneyFromString("8.00", "EUR")
		require.NoError(t, err)

		_, orderErr := domain.NewOrder("order-1", usd(t, "80.00"), eur, usd(t, "12.00"), "buyer@example.com", "Ada Lovelace")

		assert.True(t, domain.IsErrorCode(orderErr, domain.ErrCodeCurrencyMismatch))
	})

	t.Run("rejects empty customer email", func(t *testing.T) {
		_, err := domain.NewOrder("order-1", usd(t, "80.00"), usd(t, "8.00"), usd(t, "12.00"), "", "Ada Lovelace")

		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeMissingRequiredField))
	})
}

func TestOrder_StatusTransitions(t *testing.T) {
	t.Run("PENDING -> PROCESSING on payment execution", func(t *testing.T) {
		order := createTestOrder(t)

		require.NoError(t, order.MarkProcessing())

		assert.Equal(t, domain.OrderStatusProcessing, order.Status)
	})

	t.Run("PROCESSING -> REFUNDED on full refund", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.MarkProcessing())

		require.NoError(t, order.MarkRefunded())

		assert.Equal(t, domain.OrderStatusRefunded, order.Status)
	})

	t.Run("cannot refund a pending order", func(t *testing.T) {
		order := createTestOrder(t)

		err := order.MarkRefunded()

		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("cannot cancel a refunded order", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.MarkProcessing())
		require.NoError(t, order.MarkRefunded())

		err := order.MarkCancelled()

		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func createTestOrder(t *testing.T) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder("order-1", usd(t, "80.00"), usd(t, "8.00"), usd(t, "12.00"), "buyer@example.com", "Ada Lovelace")
	require.NoError(t, err)
	return order
}
