package domain

import (
	"time"
)

type SubscriptionStatus string

const (
	SubscriptionPending   SubscriptionStatus = "PENDING"
	SubscriptionActive    SubscriptionStatus = "ACTIVE"
	SubscriptionSuspended SubscriptionStatus = "SUSPENDED"
	SubscriptionCancelled SubscriptionStatus = "CANCELLED"
	SubscriptionExpired   SubscriptionStatus = "EXPIRED"
	SubscriptionFailed    SubscriptionStatus = "FAILED"
)

type BillingCycle string

const (
	BillingMonthly BillingCycle = "MONTHLY"
	BillingYearly  BillingCycle = "YEARLY"
)

// Subscription tracks a recurring billing agreement created at the processor.
// The processor drives its status through billing webhooks.
type Subscription struct {
	ID                      string
	ProcessorSubscriptionID string
	PlanName                string
	Amount                  Money
	BillingCycle            BillingCycle
	Status                  SubscriptionStatus
	PayerEmail              string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	ActivatedAt *time.Time
	CancelledAt *time.Time
}

func NewSubscription(id, processorSubscriptionID, planName string, amount Money, cycle BillingCycle, payerEmail string) (*Subscription, error) {
	if id == "" {
		return nil, NewMissingRequiredFieldError("subscription ID")
	}
	if processorSubscriptionID == "" {
		return nil, NewMissingRequiredFieldError("processor subscription ID")
	}
	if planName == "" {
		return nil, NewMissingRequiredFieldError("plan name")
	}
	if !amount.IsPositive() {
		return nil, NewInvalidAmountError(amount.StringFixed())
	}

	now := time.Now()
	return &Subscription{
		ID:                      id,
		ProcessorSubscriptionID: processorSubscriptionID,
		PlanName:                planName,
		Amount:                  amount,
		BillingCycle:            cycle,
		Status:                  SubscriptionPending,
		PayerEmail:              payerEmail,
		CreatedAt:               now,
		UpdatedAt:               now,
	}, nil
}

// Activate is idempotent: an already active subscription stays active.
func (s *Subscription) Activate() error {
	switch s.Status {
	case SubscriptionActive:
		return nil
	case SubscriptionPending, SubscriptionSuspended:
		now := time.Now()
		s.Status = SubscriptionActive
		s.ActivatedAt = &now
		s.UpdatedAt = now
		return nil
	default:
		return NewInvalidStateError(string(s.Status), "activated")
	}
}

// Cancel is idempotent for already cancelled subscriptions.
func (s *Subscription) Cancel() error {
	switch s.Status {
	case SubscriptionCancelled:
		return nil
	case SubscriptionExpired, SubscriptionFailed:
		return NewInvalidStateError(string(s.Status), "cancelled")
	default:
		now := time.Now()
		s.Status = SubscriptionCancelled
		s.CancelledAt = &now
		s.UpdatedAt = now
		return nil
	}
}

// ReconstituteSubscription - Special constructor for loading from DB
func ReconstituteSubscription(
	id, processorSubscriptionID, planName string,
	amount Money,
	cycle BillingCycle,
	status SubscriptionStatus,
	payerEmail string,
	createdAt, updatedAt time.Time,
	activatedAt, cancelledAt *time.Time,
) *Subscription {
	return &Subscription{
		ID:                      id,
		ProcessorSubscriptionID: processorSubscriptionID,
		PlanName:                planName,
		Amount:                  amount,
		BillingCycle:            cycle,
		Status:                  status,
		PayerEmail:              payerEmail,
		CreatedAt:               createdAt,
		UpdatedAt:               updatedAt,
		ActivatedAt:             activatedAt,
		CancelledAt:             cancelledAt,
	}
}
