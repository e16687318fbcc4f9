package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/stackpay/paygate/internal/application"
	"github.com/stackpay/paygate/internal/domain"
	"github.com/stackpay/paygate/internal/metrics"
)

// webhookEnvelope is the subset of the processor notification we act on.
type webhookEnvelope struct {
	ID           string `json:"id"`
	EventType    string `json:"event_type"`
	ResourceType string `json:"resource_type"`
	Resource     struct {
		ID string `json:"id"`
	} `json:"resource"`
}

type WebhookService struct {
	events        application.WebhookEventRepository
	payments      *PaymentService
	subscriptions application.SubscriptionRepository
	uow           application.UnitOfWork
	logger        *slog.Logger
}

func NewWebhookService(
	events application.WebhookEventRepository,
	payments *PaymentService,
	subscriptions application.SubscriptionRepository,
	uow application.UnitOfWork,
	logger *slog.Logger,
) *WebhookService {
	return &WebhookService{
		events:        events,
		payments:      payments,
		subscriptions: subscriptions,
		uow:           uow,
		logger:        logger,
	}
}

// Process records and dispatches one notification. Replays of an event id
// already seen are acknowledged without dispatching again. A dispatch
// failure leaves the stored event unprocessed so the reconciler retries it.
func (s *WebhookService) Process(ctx context.Context, payload []byte) error {
	metrics.WebhooksReceived.Inc()

	var envelope webhookEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return application.NewInvalidInputError(err)
	}
	if envelope.ID == "" {
		return application.NewInvalidInputError(errors.New("missing event id"))
	}

	if _, err := s.events.FindByEventID(ctx, envelope.ID); err == nil {
		s.logger.Info("duplicate webhook event", "event_id", envelope.ID)
		metrics.WebhooksDuplicate.Inc()
		return nil
	} else if !errors.Is(err, application.ErrNotFound) {
		return application.NewInternalError(err)
	}

	event, err := domain.NewWebhookEvent(
		uuid.New().String(),
		envelope.ID,
		envelope.EventType,
		envelope.ResourceType,
		envelope.Resource.ID,
		payload,
	)
	if err != nil {
		return application.NewInvalidInputError(err)
	}

	if err := s.events.Insert(ctx, event); err != nil {
		if errors.Is(err, application.ErrDuplicateEventID) {
			// A concurrent delivery of the same event won the insert.
			s.logger.Info("duplicate webhook event", "event_id", envelope.ID)
			metrics.WebhooksDuplicate.Inc()
			return nil
		}
		return application.NewInternalError(err)
	}

	if err := s.Dispatch(ctx, event); err != nil {
		s.logger.Error("webhook dispatch failed", "event_id", event.EventID, "event_type", event.RawEventType, "error", err)
		metrics.WebhooksFailed.Inc()
		return err
	}
	return nil
}

// Dispatch routes a stored event to its handler and marks it processed on
// success. The reconciler worker uses it to retry unprocessed events.
func (s *WebhookService) Dispatch(ctx context.Context, event *domain.WebhookEvent) error {
	var err error
	switch event.EventType {
	case domain.EventCaptureCompleted:
		err = s.payments.ReconcileCaptureCompleted(ctx, event.ResourceID)
	case domain.EventCaptureRefunded:
		err = s.payments.ReconcileCaptureRefunded(ctx, event.ResourceID)
	case domain.EventAuthorizationVoided:
		err = s.payments.ReconcileAuthorizationVoided(ctx, event.ResourceID)
	case domain.EventSubscriptionActivated:
		err = s.activateSubscription(ctx, event.ResourceID)
	case domain.EventSubscriptionCancelled:
		err = s.cancelSubscription(ctx, event.ResourceID)
	default:
		s.logger.Info("ignoring unhandled webhook event type", "event_id", event.EventID, "event_type", event.RawEventType)
	}
	if err != nil {
		return err
	}

	event.MarkProcessed()
	if err := s.events.MarkProcessed(ctx, event); err != nil {
		return application.NewInternalError(err)
	}
	metrics.WebhooksProcessed.Inc()
	return nil
}

func (s *WebhookService) activateSubscription(ctx context.Context, processorSubscriptionID string) error {
	return s.uow.Run(ctx, func(ctx context.Context) error {
		sub, err := s.subscriptions.FindByProcessorSubscriptionIDForUpdate(ctx, processorSubscriptionID)
		if err != nil {
			if errors.Is(err, application.ErrNotFound) {
				return application.NewNotFoundError("subscription", processorSubscriptionID)
			}
			return application.NewInternalError(err)
		}
		if err := sub.Activate(); err != nil {
			return err
		}
		if err := s.subscriptions.Update(ctx, sub); err != nil {
			return application.NewInternalError(err)
		}
		s.logger.Info("subscription activated", "subscription_id", sub.ID)
		return nil
	})
}

func (s *WebhookService) cancelSubscription(ctx context.Context, processorSubscriptionID string) error {
	return s.uow.Run(ctx, func(ctx context.Context) error {
		sub, err := s.subscriptions.FindByProcessorSubscriptionIDForUpdate(ctx, processorSubscriptionID)
		if err != nil {
			if errors.Is(err, application.ErrNotFound) {
				return application.NewNotFoundError("subscription", processorSubscriptionID)
			}
			return application.NewInternalError(err)
		}
		if err := sub.Cancel(); err != nil {
			return err
		}
		if err := s.subscriptions.Update(ctx, sub); err != nil {
			return application.NewInternalError(err)
		}
		s.logger.Info("subscription cancelled", "subscription_id", sub.ID)
		return nil
	})
}
