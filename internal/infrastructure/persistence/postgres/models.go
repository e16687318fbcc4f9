package postgres

import (
	"time"

	"github.com/shopspring/decimal"
)

// Row models mirror the table layouts; mapping to and from domain entities
// lives in mappers.go.

type PaymentModel struct {
	ID             string
	IdempotencyKey string
	Intent         string
	Status         string

	Amount           decimal.Decimal
	Currency         string
	AuthorizedAmount decimal.Decimal
	CapturedAmount   decimal.Decimal
	RefundedAmount   decimal.Decimal

	Description  string
	RefundReason *string
	OrderID      *string

	ProcessorPaymentID *string
	SaleID             *string
	AuthorizationID    *string
	CaptureID          *string

	PayerID     *string
	PayerEmail  *string
	PayerName   *string
	ApprovalURL *string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

type OrderModel struct {
	ID          string
	OrderNumber string
	Status      string

	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
	Currency string

	CustomerEmail string
	CustomerName  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type SubscriptionModel struct {
	ID                      string
	ProcessorSubscriptionID string
	PlanName                string
	Amount                  decimal.Decimal
	Currency                string
	BillingCycle            string
	Status                  string
	PayerEmail              string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	ActivatedAt *time.Time
	CancelledAt *time.Time
}

type WebhookEventModel struct {
	ID           string
	EventID      string
	EventType    string
	ResourceType string
	ResourceID   string
	Payload      []byte

	Processed   bool
	ReceivedAt  time.Time
	ProcessedAt *time.Time
}
