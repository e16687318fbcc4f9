package domain_test

import (
	"testing"

	"github.com/stackpay/paygate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWebhookEventType(t *testing.T) {
	tests := []struct {
		raw  string
		want domain.WebhookEventType
	}{
		{"PAYMENT.CAPTURE.COMPLETED", domain.EventCaptureCompleted},
		{"PAYMENT.CAPTURE.REFUNDED", domain.EventCaptureRefunded},
		{"PAYMENT.AUTHORIZATION.VOIDED", domain.EventAuthorizationVoided},
		{"BILLING.SUBSCRIPTION.ACTIVATED", domain.EventSubscriptionActivated},
		{"BILLING.SUBSCRIPTION.CANCELLED", domain.EventSubscriptionCancelled},
		{"PAYMENT.SALE.PENDING", domain.EventUnknown},
		{"", domain.EventUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ParseWebhookEventType(tt.raw))
		})
	}
}

func TestWebhookEvent(t *testing.T) {
	t.Run("new events are unprocessed", func(t *testing.T) {
		event, err := domain.NewWebhookEvent("wh-1", "WH-EVT-1", "PAYMENT.CAPTURE.COMPLETED", "capture", "CAP-1", []byte(`{}`))

		require.NoError(t, err)
		assert.False(t, event.Processed)
		assert.Nil(t, event.ProcessedAt)
		assert.Equal(t, domain.EventCaptureCompleted, event.EventType)
		assert.Equal(t, "PAYMENT.CAPTURE.COMPLETED", event.RawEventType)
	})

	t.Run("requires an event id", func(t *testing.T) {
		_, err := domain.NewWebhookEvent("wh-1", "", "PAYMENT.CAPTURE.COMPLETED", "capture", "CAP-1", nil)

		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeMissingRequiredField))
	})

	t.Run("mark processed is idempotent", func(t *testing.T) {
		event, err := domain.NewWebhookEvent("wh-1", "WH-EVT-1", "PAYMENT.CAPTURE.COMPLETED", "capture", "CAP-1", nil)
		require.NoError(t, err)

		event.MarkProcessed()
		first := event.ProcessedAt
		event.MarkProcessed()

		assert.True(t, event.Processed)
		assert.Equal(t, first, event.ProcessedAt)
	})
}

func TestSubscription(t *testing.T) {
	t.Run("activate from pending", func(t *testing.T) {
		sub := createTestSubscription(t)

		require.NoError(t, sub.Activate())

		assert.Equal(t, domain.SubscriptionActive, sub.Status)
		assert.NotNil(t, sub.ActivatedAt)
	})

	t.Run("activate is idempotent", func(t *testing.T) {
		sub := createTestSubscription(t)
		require.NoError(t, sub.Activate())
		first := sub.ActivatedAt

		require.NoError(t, sub.Activate())

		assert.Equal(t, first, sub.ActivatedAt)
	})

	t.Run("cancel from active", func(t *testing.T) {
		sub := createTestSubscription(t)
		require.NoError(t, sub.Activate())

		require.NoError(t, sub.Cancel())

		assert.Equal(t, domain.SubscriptionCancelled, sub.Status)
		assert.NotNil(t, sub.CancelledAt)
	})

	t.Run("cannot activate a cancelled subscription", func(t *testing.T) {
		sub := createTestSubscription(t)
		require.NoError(t, sub.Cancel())

		err := sub.Activate()

		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidState))
	})
}

func createTestSubscription(t *testing.T) *domain.Subscription {
	t.Helper()
	sub, err := domain.NewSubscription("sub-1", "I-PROC-SUB-1", "pro-monthly", usd(t, "29.99"), domain.BillingMonthly, "buyer@example.com")
	require.NoError(t, err)
	return sub
}
