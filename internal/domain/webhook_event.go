package domain

import (
	"time"
)

// WebhookEventType is the closed set of processor notifications this service
// reacts to. Anything else is recorded and acknowledged without dispatch.
type WebhookEventType string

const (
	EventCaptureCompleted      WebhookEventType = "PAYMENT.CAPTURE.COMPLETED"
	EventCaptureRefunded       WebhookEventType = "PAYMENT.CAPTURE.REFUNDED"
	EventAuthorizationVoided   WebhookEventType = "PAYMENT.AUTHORIZATION.VOIDED"
	EventSubscriptionActivated WebhookEventType = "BILLING.SUBSCRIPTION.ACTIVATED"
	EventSubscriptionCancelled WebhookEventType = "BILLING.SUBSCRIPTION.CANCELLED"
	EventUnknown               WebhookEventType = "UNKNOWN"
)

// ParseWebhookEventType maps the raw event_type string onto the closed enum.
func ParseWebhookEventType(s string) WebhookEventType {
	switch WebhookEventType(s) {
	case EventCaptureCompleted, EventCaptureRefunded, EventAuthorizationVoided,
		EventSubscriptionActivated, EventSubscriptionCancelled:
		return WebhookEventType(s)
	default:
		return EventUnknown
	}
}

// WebhookEvent is an append-only record of a received processor notification.
// The only mutation ever applied is flipping Processed after dispatch.
type WebhookEvent struct {
	ID           string
	EventID      string
	EventType    WebhookEventType
	RawEventType string
	ResourceType string
	ResourceID   string
	Payload      []byte

	Processed   bool
	ReceivedAt  time.Time
	ProcessedAt *time.Time
}

func NewWebhookEvent(id, eventID, rawEventType, resourceType, resourceID string, payload []byte) (*WebhookEvent, error) {
	if id == "" {
		return nil, NewMissingRequiredFieldError("webhook record ID")
	}
	if eventID == "" {
		return nil, NewMissingRequiredFieldError("event ID")
	}
	return &WebhookEvent{
		ID:           id,
		EventID:      eventID,
		EventType:    ParseWebhookEventType(rawEventType),
		RawEventType: rawEventType,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Payload:      payload,
		Processed:    false,
		ReceivedAt:   time.Now(),
	}, nil
}

// MarkProcessed stamps successful dispatch. Calling it twice is harmless.
func (e *WebhookEvent) MarkProcessed() {
	if e.Processed {
		return
	}
	now := time.Now()
	e.Processed = true
	e.ProcessedAt = &now
}

// ReconstituteWebhookEvent - Special constructor for loading from DB
func ReconstituteWebhookEvent(
	id, eventID, rawEventType, resourceType, resourceID string,
	payload []byte,
	processed bool,
	receivedAt time.Time,
	processedAt *time.Time,
) *WebhookEvent {
	return &WebhookEvent{
		ID:           id,
		EventID:      eventID,
		EventType:    ParseWebhookEventType(rawEventType),
		RawEventType: rawEventType,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Payload:      payload,
		Processed:    processed,
		ReceivedAt:   receivedAt,
		ProcessedAt:  processedAt,
	}
}
