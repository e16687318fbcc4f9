// Package application defines the ports and orchestration-level errors that
// sit between the HTTP surface and the domain.
package application

import (
	"context"

	"github.com/stackpay/paygate/internal/domain"
)

// ProcessorClient is the port for the external payment processor.
type ProcessorClient interface {
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (*CreatePaymentResponse, error)
	ExecutePayment(ctx context.Context, req ExecutePaymentRequest) (*ExecutePaymentResponse, error)
	CaptureAuthorization(ctx context.Context, req CaptureRequest) (*CaptureResponse, error)
	RefundSale(ctx context.Context, req RefundRequest) (*RefundResponse, error)
	RefundCapture(ctx context.Context, req RefundRequest) (*RefundResponse, error)
	VoidAuthorization(ctx context.Context, authorizationID string) (*VoidResponse, error)
}

// PaymentRepository is the port for payment persistence. ForUpdate variants
// take a row lock when called inside a transaction.
type PaymentRepository interface {
	Save(ctx context.Context, payment *domain.Payment) error
	Update(ctx context.Context, payment *domain.Payment) error
	FindByID(ctx context.Context, id string) (*domain.Payment, error)
	FindByIDForUpdate(ctx context.Context, id string) (*domain.Payment, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*domain.Payment, error)
	FindByProcessorPaymentIDForUpdate(ctx context.Context, processorPaymentID string) (*domain.Payment, error)
	FindByAuthorizationIDForUpdate(ctx context.Context, authorizationID string) (*domain.Payment, error)
	// FindByCaptureIDForUpdate matches single-step sale ids as well, so
	// refunds address both intents with one identifier.
	FindByCaptureIDForUpdate(ctx context.Context, captureID string) (*domain.Payment, error)
}

type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) error
	Update(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByIDForUpdate(ctx context.Context, id string) (*domain.Order, error)
}

type SubscriptionRepository interface {
	Save(ctx context.Context, sub *domain.Subscription) error
	Update(ctx context.Context, sub *domain.Subscription) error
	FindByProcessorSubscriptionIDForUpdate(ctx context.Context, processorSubscriptionID string) (*domain.Subscription, error)
}

// WebhookEventRepository is append-only except for the processed flag.
type WebhookEventRepository interface {
	Insert(ctx context.Context, event *domain.WebhookEvent) error
	FindByEventID(ctx context.Context, eventID string) (*domain.WebhookEvent, error)
	MarkProcessed(ctx context.Context, event *domain.WebhookEvent) error
	ListUnprocessed(ctx context.Context, limit int) ([]*domain.WebhookEvent, error)
}

// UnitOfWork runs fn inside a database transaction; repositories invoked with
// the ctx it passes to fn operate on that transaction.
type UnitOfWork interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}
