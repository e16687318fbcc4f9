package services_test

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stackpay/paygate/internal/application"
	"github.com/stackpay/paygate/internal/application/services"
	"github.com/stackpay/paygate/internal/application/services/testhelpers"
	"github.com/stackpay/paygate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type webhookFixture struct {
	*fixture
	events        *testhelpers.MemoryWebhookEventRepository
	subscriptions *testhelpers.MemorySubscriptionRepository
	webhooks      *services.WebhookService
}

func newWebhookFixture(t *testing.T) *webhookFixture {
	t.Helper()
	base := newFixture(t)
	events := testhelpers.NewMemoryWebhookEventRepository()
	subscriptions := testhelpers.NewMemorySubscriptionRepository()
	webhooks := services.NewWebhookService(events, base.service, subscriptions, testhelpers.PassthroughUnitOfWork{}, slog.Default())
	return &webhookFixture{fixture: base, events: events, subscriptions: subscriptions, webhooks: webhooks}
}

func eventPayload(eventID, eventType, resourceID string) []byte {
	return fmt.Appendf(nil, `{"id":%q,"event_type":%q,"resource_type":"capture","resource":{"id":%q}}`, eventID, eventType, resourceID)
}

func TestWebhookService_Process(t *testing.T) {
	t.Run("capture completed settles the payment and marks the event processed", func(t *testing.T) {
		f := newWebhookFixture(t)
		f.executedSale(t)

		err := f.webhooks.Process(context.Background(), eventPayload("WH-1", "PAYMENT.CAPTURE.COMPLETED", "SALE-1"))

		require.NoError(t, err)
		payment, err := f.payments.FindByCaptureIDForUpdate(context.Background(), "SALE-1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, payment.Status)

		event, err := f.events.FindByEventID(context.Background(), "WH-1")
		require.NoError(t, err)
		assert.True(t, event.Processed)
		assert.NotNil(t, event.ProcessedAt)
	})

	t.Run("replayed event id is acknowledged without dispatching twice", func(t *testing.T) {
		f := newWebhookFixture(t)
		f.executedSale(t)
		payload := eventPayload("WH-1", "PAYMENT.CAPTURE.COMPLETED", "SALE-1")

		require.NoError(t, f.webhooks.Process(context.Background(), payload))
		require.NoError(t, f.webhooks.Process(context.Background(), payload))

		// A second dispatch would fail the COMPLETED->COMPLETED transition,
		// so the replay succeeding proves dedup short-circuited.
		payment, err := f.payments.FindByCaptureIDForUpdate(context.Background(), "SALE-1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, payment.Status)
	})

	t.Run("capture refunded applies a full refund", func(t *testing.T) {
		f := newWebhookFixture(t)
		f.executedSale(t)

		err := f.webhooks.Process(context.Background(), eventPayload("WH-2", "PAYMENT.CAPTURE.REFUNDED", "SALE-1"))

		require.NoError(t, err)
		payment, err := f.payments.FindByCaptureIDForUpdate(context.Background(), "SALE-1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRefunded, payment.Status)
		assert.Equal(t, "100.00", payment.RefundedAmount.StringFixed())
	})

	t.Run("authorization voided releases the hold", func(t *testing.T) {
		f := newWebhookFixture(t)
		f.executedAuthorization(t)

		err := f.webhooks.Process(context.Background(), eventPayload("WH-3", "PAYMENT.AUTHORIZATION.VOIDED", "AUTH-1"))

		require.NoError(t, err)
		payment, err := f.payments.FindByAuthorizationIDForUpdate(context.Background(), "AUTH-1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusVoided, payment.Status)
	})

	t.Run("unknown event type is recorded and marked processed without dispatch", func(t *testing.T) {
		f := newWebhookFixture(t)

		err := f.webhooks.Process(context.Background(), eventPayload("WH-4", "PAYMENT.SALE.PENDING", "SALE-404"))

		require.NoError(t, err)
		event, err := f.events.FindByEventID(context.Background(), "WH-4")
		require.NoError(t, err)
		assert.True(t, event.Processed)
		assert.Equal(t, domain.EventUnknown, event.EventType)
	})

	t.Run("dispatch failure stores the event unprocessed", func(t *testing.T) {
		f := newWebhookFixture(t)
		// No payment with this capture id exists, so dispatch fails.

		err := f.webhooks.Process(context.Background(), eventPayload("WH-5", "PAYMENT.CAPTURE.COMPLETED", "SALE-MISSING"))

		require.Error(t, err)
		event, findErr := f.events.FindByEventID(context.Background(), "WH-5")
		require.NoError(t, findErr)
		assert.False(t, event.Processed)
		assert.Nil(t, event.ProcessedAt)
	})

	t.Run("malformed payload is rejected", func(t *testing.T) {
		f := newWebhookFixture(t)

		err := f.webhooks.Process(context.Background(), []byte(`{not json`))

		svcErr, ok := application.IsServiceError(err)
		require.True(t, ok)
		assert.Equal(t, application.ErrCodeInvalidInput, svcErr.Code)
	})

	t.Run("missing event id is rejected", func(t *testing.T) {
		f := newWebhookFixture(t)

		err := f.webhooks.Process(context.Background(), []byte(`{"event_type":"PAYMENT.CAPTURE.COMPLETED"}`))

		svcErr, ok := application.IsServiceError(err)
		require.True(t, ok)
		assert.Equal(t, application.ErrCodeInvalidInput, svcErr.Code)
	})
}

func TestWebhookService_Subscriptions(t *testing.T) {
	newSubscription := func(t *testing.T, f *webhookFixture) *domain.Subscription {
		t.Helper()
		amount, err := domain.MoneyFromString("29.99", "USD")
		require.NoError(t, err)
		sub, err := domain.NewSubscription("sub-1", "I-SUB-1", "pro-monthly", amount, domain.BillingMonthly, "buyer@example.com")
		require.NoError(t, err)
		require.NoError(t, f.subscriptions.Save(context.Background(), sub))
		return sub
	}

	t.Run("activation webhook activates the subscription", func(t *testing.T) {
		f := newWebhookFixture(t)
		newSubscription(t, f)

		err := f.webhooks.Process(context.Background(), eventPayload("WH-6", "BILLING.SUBSCRIPTION.ACTIVATED", "I-SUB-1"))

		require.NoError(t, err)
		sub, err := f.subscriptions.FindByProcessorSubscriptionIDForUpdate(context.Background(), "I-SUB-1")
		require.NoError(t, err)
		assert.Equal(t, domain.SubscriptionActive, sub.Status)
	})

	t.Run("cancellation webhook cancels the subscription", func(t *testing.T) {
		f := newWebhookFixture(t)
		newSubscription(t, f)

		err := f.webhooks.Process(context.Background(), eventPayload("WH-7", "BILLING.SUBSCRIPTION.CANCELLED", "I-SUB-1"))

		require.NoError(t, err)
		sub, err := f.subscriptions.FindByProcessorSubscriptionIDForUpdate(context.Background(), "I-SUB-1")
		require.NoError(t, err)
		assert.Equal(t, domain.SubscriptionCancelled, sub.Status)
	})
}

func TestWebhookService_Dispatch_Retry(t *testing.T) {
	t.Run("an unprocessed event can be dispatched again later", func(t *testing.T) {
		f := newWebhookFixture(t)
		require.Error(t, f.webhooks.Process(context.Background(), eventPayload("WH-8", "PAYMENT.CAPTURE.COMPLETED", "SALE-1")))

		// The payment arrives afterwards; re-dispatch now succeeds.
		f.executedSale(t)
		unprocessed, err := f.events.ListUnprocessed(context.Background(), 10)
		require.NoError(t, err)
		require.Len(t, unprocessed, 1)

		require.NoError(t, f.webhooks.Dispatch(context.Background(), unprocessed[0]))

		event, err := f.events.FindByEventID(context.Background(), "WH-8")
		require.NoError(t, err)
		assert.True(t, event.Processed)
	})
}
