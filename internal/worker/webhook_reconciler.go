package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/stackpay/paygate/internal/application"
	"github.com/stackpay/paygate/internal/application/services"
)

// WebhookReconciler periodically redrives webhook events whose dispatch
// failed on first delivery. Dispatch is idempotent, so reprocessing an
// event that succeeded between the list and the dispatch is harmless.
type WebhookReconciler struct {
	events    application.WebhookEventRepository
	webhooks  *services.WebhookService
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
}

func NewWebhookReconciler(
	events application.WebhookEventRepository,
	webhooks *services.WebhookService,
	interval time.Duration,
	batchSize int,
	logger *slog.Logger,
) *WebhookReconciler {
	return &WebhookReconciler{
		events:    events,
		webhooks:  webhooks,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger,
	}
}

func (w *WebhookReconciler) Start(ctx context.Context) {
	w.logger.Info("webhook reconciler started", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("webhook reconciler stopping")
			return
		case <-ticker.C:
			if err := w.ProcessPending(ctx); err != nil {
				w.logger.Error("webhook reconciliation failed", "error", err)
			}
		}
	}
}

func (w *WebhookReconciler) ProcessPending(ctx context.Context) error {
	events, err := w.events.ListUnprocessed(ctx, w.batchSize)
	if err != nil {
		return err
	}

	var processed int
	for _, event := range events {
		if err := w.webhooks.Dispatch(ctx, event); err != nil {
			w.logger.Error("webhook redispatch failed",
				"event_id", event.EventID,
				"event_type", event.RawEventType,
				"error", err)
			continue
		}
		processed++
	}

	if processed > 0 {
		w.logger.Info("redispatched webhook events", "count", processed)
	}

	return nil
}
