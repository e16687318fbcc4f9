package domain

import (
	"slices"
	"time"
)

// PaymentStatus represents the current state of a payment in its lifecycle
type PaymentStatus string

const (
	StatusCreated           PaymentStatus = "CREATED"
	StatusApproved          PaymentStatus = "APPROVED"
	StatusAuthorized        PaymentStatus = "AUTHORIZED"
	StatusCaptured          PaymentStatus = "CAPTURED"
	StatusCompleted         PaymentStatus = "COMPLETED"
	StatusPartiallyRefunded PaymentStatus = "PARTIALLY_REFUNDED"
	StatusRefunded          PaymentStatus = "REFUNDED"
	StatusVoided            PaymentStatus = "VOIDED"
	StatusFailed            PaymentStatus = "FAILED"
	StatusCancelled         PaymentStatus = "CANCELLED"
)

// PaymentIntent selects the processor flow: CAPTURE settles funds on
// execution, AUTHORIZE places a hold that is captured (or voided) later.
type PaymentIntent string

const (
	IntentCapture   PaymentIntent = "CAPTURE"
	IntentAuthorize PaymentIntent = "AUTHORIZE"
)

func ParseIntent(s string) (PaymentIntent, error) {
	switch PaymentIntent(s) {
	case IntentCapture, IntentAuthorize:
		return PaymentIntent(s), nil
	default:
		return "", NewInvalidIntentError(s)
	}
}

type Payment struct {
	ID             string
	IdempotencyKey string
	Intent         PaymentIntent
	Status         PaymentStatus
	Amount         Money
	Description    string

	AuthorizedAmount Money
	CapturedAmount   Money
	RefundedAmount   Money
	RefundReason     *string

	OrderID *string

	ProcessorPaymentID *string
	SaleID             *string
	AuthorizationID    *string
	CaptureID          *string

	PayerID    *string
	PayerEmail *string
	PayerName  *string

	ApprovalURL *string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

func NewPayment(id, idempotencyKey string, intent PaymentIntent, amount Money, description string, orderID *string) (*Payment, error) {
	if id == "" {
		return nil, NewMissingRequiredFieldError("payment ID")
	}
	if idempotencyKey == "" {
		return nil, NewMissingRequiredFieldError("idempotency key")
	}
	if intent != IntentCapture && intent != IntentAuthorize {
		return nil, NewInvalidIntentError(string(intent))
	}
	if !amount.IsPositive() {
		return nil, NewInvalidAmountError(amount.StringFixed())
	}
	if description == "" {
		return nil, NewMissingRequiredFieldError("description")
	}

	now := time.Now()
	return &Payment{
		ID:               id,
		IdempotencyKey:   idempotencyKey,
		Intent:           intent,
		Status:           StatusCreated,
		Amount:           amount,
		Description:      description,
		AuthorizedAmount: ZeroMoney(amount.Currency),
		CapturedAmount:   ZeroMoney(amount.Currency),
		RefundedAmount:   ZeroMoney(amount.Currency),
		OrderID:          orderID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

func (p *Payment) transition(target PaymentStatus) error {
	if err := p.canTransitionTo(target); err != nil {
		return err
	}
	p.Status = target
	p.UpdatedAt = time.Now()
	return nil
}

// defines which statuses each status may move to
func (p *Payment) canTransitionTo(target PaymentStatus) error {
	switch p.Status {
	case StatusCreated:
		return p.allow(target, StatusApproved, StatusFailed, StatusCancelled)
	case StatusApproved:
		return p.allow(target, StatusAuthorized, StatusCaptured, StatusFailed, StatusCancelled)
	case StatusAuthorized:
		return p.allow(target, StatusCaptured, StatusVoided)
	case StatusCaptured:
		return p.allow(target, StatusCompleted, StatusPartiallyRefunded, StatusRefunded)
	case StatusCompleted:
		return p.allow(target, StatusPartiallyRefunded, StatusRefunded)
	case StatusPartiallyRefunded:
		return p.allow(target, StatusPartiallyRefunded, StatusRefunded)
	}
	return NewInvalidTransitionError(p.Status, target)
}

// Helper to check allowed state transitions
func (p *Payment) allow(target PaymentStatus, allowed ...PaymentStatus) error {
	if slices.Contains(allowed, target) {
		return nil
	}
	return NewInvalidTransitionError(p.Status, target)
}

// AttachProcessorPayment records the processor's payment id and approval URL
// after the create call. Both are written exactly once.
func (p *Payment) AttachProcessorPayment(processorPaymentID, approvalURL string) error {
	if p.ProcessorPaymentID != nil {
		return NewProcessorIDConflictError("processor payment id", *p.ProcessorPaymentID, processorPaymentID)
	}
	p.ProcessorPaymentID = &processorPaymentID
	p.ApprovalURL = &approvalURL
	p.UpdatedAt = time.Now()
	return nil
}

// Approve moves a created payment to APPROVED and stores the payer identity
// returned by the processor's execute call.
func (p *Payment) Approve(payerID, payerEmail, payerName string) error {
	if err := p.transition(StatusApproved); err != nil {
		return err
	}
	p.PayerID = &payerID
	p.PayerEmail = &payerEmail
	p.PayerName = &payerName
	return nil
}

// RecordSale settles a CAPTURE-intent payment: the full amount is captured
// in one step and the payment completes immediately.
func (p *Payment) RecordSale(saleID string, amount Money) error {
	if !p.Amount.SameCurrency(amount) {
		return NewCurrencyMismatchError(p.Amount.Currency, amount.Currency)
	}
	if p.SaleID != nil {
		return NewProcessorIDConflictError("sale id", *p.SaleID, saleID)
	}
	if err := p.transition(StatusCaptured); err != nil {
		return err
	}
	p.SaleID = &saleID
	p.CapturedAmount = amount
	now := time.Now()
	p.CompletedAt = &now
	return nil
}

// RecordAuthorization places the hold for an AUTHORIZE-intent payment.
func (p *Payment) RecordAuthorization(authorizationID string, amount Money) error {
	if !p.Amount.SameCurrency(amount) {
		return NewCurrencyMismatchError(p.Amount.Currency, amount.Currency)
	}
	if p.AuthorizationID != nil {
		return NewProcessorIDConflictError("authorization id", *p.AuthorizationID, authorizationID)
	}
	if err := p.transition(StatusAuthorized); err != nil {
		return err
	}
	p.AuthorizationID = &authorizationID
	p.AuthorizedAmount = amount
	return nil
}

// ApplyCapture draws down an authorization. Partial captures leave the
// payment AUTHORIZED so further captures remain possible; the final capture
// moves it to CAPTURED and stamps CompletedAt.
func (p *Payment) ApplyCapture(amount Money, captureID string, final bool) error {
	if !p.IsCaptureable() {
		return NewInvalidStateError(string(p.Status), "captured")
	}
	if !p.Amount.SameCurrency(amount) {
		return NewCurrencyMismatchError(p.Amount.Currency, amount.Currency)
	}
	if !amount.IsPositive() {
		return NewInvalidAmountError(amount.StringFixed())
	}
	captureable := p.CaptureableAmount()
	if amount.GreaterThan(captureable) {
		return NewCaptureExceededError(amount.StringFixed(), captureable.StringFixed())
	}

	newCaptured, err := p.CapturedAmount.Add(amount)
	if err != nil {
		return err
	}
	if final {
		if err := p.transition(StatusCaptured); err != nil {
			return err
		}
		now := time.Now()
		p.CompletedAt = &now
	} else {
		p.UpdatedAt = time.Now()
	}
	p.CapturedAmount = newCaptured
	// The latest capture id replaces the previous one on multi-capture flows;
	// each processor capture id still maps back to this payment via the
	// refund path's lookup table in persistence.
	p.CaptureID = &captureID
	return nil
}

// ApplyRefund returns captured funds. The payment becomes REFUNDED once the
// refunded total reaches the captured total, PARTIALLY_REFUNDED otherwise.
func (p *Payment) ApplyRefund(amount Money, reason string) error {
	if !p.IsRefundable() {
		return NewInvalidStateError(string(p.Status), "refunded")
	}
	if !p.Amount.SameCurrency(amount) {
		return NewCurrencyMismatchError(p.Amount.Currency, amount.Currency)
	}
	if !amount.IsPositive() {
		return NewInvalidAmountError(amount.StringFixed())
	}
	refundable := p.RefundableAmount()
	if amount.GreaterThan(refundable) {
		return NewRefundExceededError(amount.StringFixed(), refundable.StringFixed())
	}

	newRefunded, err := p.RefundedAmount.Add(amount)
	if err != nil {
		return err
	}
	target := StatusPartiallyRefunded
	if newRefunded.Cmp(p.CapturedAmount) >= 0 {
		target = StatusRefunded
	}
	if err := p.transition(target); err != nil {
		return err
	}
	p.RefundedAmount = newRefunded
	if reason != "" {
		p.RefundReason = &reason
	}
	return nil
}

// Complete acknowledges the processor's settlement notification.
func (p *Payment) Complete() error {
	return p.transition(StatusCompleted)
}

// Void releases an authorization hold without moving funds.
func (p *Payment) Void() error {
	return p.transition(StatusVoided)
}

func (p *Payment) Fail() error {
	return p.transition(StatusFailed)
}

func (p *Payment) Cancel() error {
	return p.transition(StatusCancelled)
}

// IsCaptureable reports whether the payment holds an authorization that
// still has funds to draw.
func (p *Payment) IsCaptureable() bool {
	return p.Status == StatusAuthorized
}

// IsRefundable reports whether captured funds can still be returned.
func (p *Payment) IsRefundable() bool {
	switch p.Status {
	case StatusCaptured, StatusCompleted, StatusPartiallyRefunded:
		return true
	default:
		return false
	}
}

// CaptureableAmount is the authorized remainder not yet captured.
func (p *Payment) CaptureableAmount() Money {
	remaining, err := p.AuthorizedAmount.Sub(p.CapturedAmount)
	if err != nil {
		return ZeroMoney(p.Amount.Currency)
	}
	return remaining
}

// RefundableAmount is the captured remainder not yet refunded.
func (p *Payment) RefundableAmount() Money {
	remaining, err := p.CapturedAmount.Sub(p.RefundedAmount)
	if err != nil {
		return ZeroMoney(p.Amount.Currency)
	}
	return remaining
}

// helper to identify payment statuses that are terminal
func (p *Payment) IsTerminal() bool {
	switch p.Status {
	case StatusRefunded, StatusVoided, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// ReconstitutePayment - Special constructor for loading from DB
func ReconstitutePayment(
	id, idempotencyKey string,
	intent PaymentIntent,
	status PaymentStatus,
	amount, authorizedAmount, capturedAmount, refundedAmount Money,
	description string,
	refundReason *string,
	orderID *string,
	processorPaymentID, saleID, authorizationID, captureID *string,
	payerID, payerEmail, payerName *string,
	approvalURL *string,
	createdAt, updatedAt time.Time,
	completedAt *time.Time,
) *Payment {
	return &Payment{
		ID:                 id,
		IdempotencyKey:     idempotencyKey,
		Intent:             intent,
		Status:             status,
		Amount:             amount,
		Description:        description,
		AuthorizedAmount:   authorizedAmount,
		CapturedAmount:     capturedAmount,
		RefundedAmount:     refundedAmount,
		RefundReason:       refundReason,
		OrderID:            orderID,
		ProcessorPaymentID: processorPaymentID,
		SaleID:             saleID,
		AuthorizationID:    authorizationID,
		CaptureID:          captureID,
		PayerID:            payerID,
		PayerEmail:         payerEmail,
		PayerName:          payerName,
		ApprovalURL:        approvalURL,
		CreatedAt:          createdAt,
		UpdatedAt:          updatedAt,
		CompletedAt:        completedAt,
	}
}
