package worker_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stackpay/paygate/internal/application/services"
	"github.com/stackpay/paygate/internal/application/services/testhelpers"
	"github.com/stackpay/paygate/internal/domain"
	"github.com/stackpay/paygate/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reconcilerFixture struct {
	payments *testhelpers.MemoryPaymentRepository
	events   *testhelpers.MemoryWebhookEventRepository
	webhooks *services.WebhookService
	worker   *worker.WebhookReconciler
}

func newReconcilerFixture(t *testing.T) *reconcilerFixture {
	t.Helper()
	logger := slog.Default()
	payments := testhelpers.NewMemoryPaymentRepository()
	orders := testhelpers.NewMemoryOrderRepository()
	events := testhelpers.NewMemoryWebhookEventRepository()
	subscriptions := testhelpers.NewMemorySubscriptionRepository()
	uow := testhelpers.PassthroughUnitOfWork{}

	processor := new(testhelpers.MockProcessorClient)
	paymentService := services.NewPaymentService(payments, orders, processor, uow, logger)
	webhookService := services.NewWebhookService(events, paymentService, subscriptions, uow, logger)

	return &reconcilerFixture{
		payments: payments,
		events:   events,
		webhooks: webhookService,
		worker:   worker.NewWebhookReconciler(events, webhookService, time.Minute, 10, logger),
	}
}

func (f *reconcilerFixture) seedSale(t *testing.T, saleID string) *domain.Payment {
	t.Helper()
	amount, err := domain.MoneyFromString("100.00", "USD")
	require.NoError(t, err)
	payment, err := domain.NewPayment("pay-1", "key-1", domain.IntentCapture, amount, "order", nil)
	require.NoError(t, err)
	require.NoError(t, payment.AttachProcessorPayment("PAYID-1", "https://example.com/approve"))
	require.NoError(t, payment.Approve("PAYER-1", "buyer@example.com", "Test Buyer"))
	require.NoError(t, payment.RecordSale(saleID, amount))
	require.NoError(t, f.payments.Save(context.Background(), payment))
	return payment
}

func (f *reconcilerFixture) seedUnprocessedEvent(t *testing.T, eventID, eventType, resourceID string) {
	t.Helper()
	payload := []byte(`{"id":"` + eventID + `","event_type":"` + eventType + `","resource":{"id":"` + resourceID + `"}}`)
	event, err := domain.NewWebhookEvent("evt-"+eventID, eventID, eventType, "capture", resourceID, payload)
	require.NoError(t, err)
	require.NoError(t, f.events.Insert(context.Background(), event))
}

func TestWebhookReconciler_ProcessPending(t *testing.T) {
	t.Run("redispatches stored events once the payment exists", func(t *testing.T) {
		f := newReconcilerFixture(t)
		f.seedUnprocessedEvent(t, "WH-1", "PAYMENT.CAPTURE.COMPLETED", "SALE-1")
		f.seedSale(t, "SALE-1")

		require.NoError(t, f.worker.ProcessPending(context.Background()))

		event, err := f.events.FindByEventID(context.Background(), "WH-1")
		require.NoError(t, err)
		assert.True(t, event.Processed)

		payment, err := f.payments.FindByCaptureIDForUpdate(context.Background(), "SALE-1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, payment.Status)
	})

	t.Run("a failing event stays unprocessed for the next sweep", func(t *testing.T) {
		f := newReconcilerFixture(t)
		f.seedUnprocessedEvent(t, "WH-2", "PAYMENT.CAPTURE.COMPLETED", "SALE-MISSING")

		require.NoError(t, f.worker.ProcessPending(context.Background()))

		event, err := f.events.FindByEventID(context.Background(), "WH-2")
		require.NoError(t, err)
		assert.False(t, event.Processed)
	})

	t.Run("one failing event does not block the rest of the batch", func(t *testing.T) {
		f := newReconcilerFixture(t)
		f.seedUnprocessedEvent(t, "WH-3", "PAYMENT.CAPTURE.COMPLETED", "SALE-MISSING")
		f.seedUnprocessedEvent(t, "WH-4", "PAYMENT.CAPTURE.COMPLETED", "SALE-1")
		f.seedSale(t, "SALE-1")

		require.NoError(t, f.worker.ProcessPending(context.Background()))

		event, err := f.events.FindByEventID(context.Background(), "WH-4")
		require.NoError(t, err)
		assert.True(t, event.Processed)
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		f := newReconcilerFixture(t)
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan struct{})
		go func() {
			f.worker.Start(ctx)
			close(done)
		}()

		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("worker did not stop after cancellation")
		}
	})
}
