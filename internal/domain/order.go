package domain

import (
	"crypto/rand"
	"encoding/hex"
	"slices"
	"strings"
	"time"
)

// OrderStatus mirrors payment progress; fulfilment statuses past PROCESSING
// are moved by merchant tooling, not by the payment flow.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusRefunded   OrderStatus = "REFUNDED"
)

type Order struct {
	ID          string
	OrderNumber string
	Status      OrderStatus

	Subtotal Money
	Tax      Money
	Shipping Money
	Total    Money

	CustomerEmail string
	CustomerName  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewOrder(id string, subtotal, tax, shipping Money, customerEmail, customerName string) (*Order, error) {
	if id == "" {
		return nil, NewMissingRequiredFieldError("order ID")
	}
	if customerEmail == "" {
		return nil, NewMissingRequiredFieldError("customer email")
	}
	if !subtotal.SameCurrency(tax) || !subtotal.SameCurrency(shipping) {
		return nil, NewCurrencyMismatchError(subtotal.Currency, tax.Currency)
	}

	total, err := subtotal.Add(tax)
	if err != nil {
		return nil, err
	}
	total, err = total.Add(shipping)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Order{
		ID:            id,
		OrderNumber:   generateOrderNumber(),
		Status:        OrderStatusPending,
		Subtotal:      subtotal,
		Tax:           tax,
		Shipping:      shipping,
		Total:         total,
		CustomerEmail: customerEmail,
		CustomerName:  customerName,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (o *Order) transition(target OrderStatus) error {
	if err := o.canTransitionTo(target); err != nil {
		return err
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}

func (o *Order) canTransitionTo(target OrderStatus) error {
	switch o.Status {
	case OrderStatusPending:
		return o.allow(target, OrderStatusProcessing, OrderStatusCancelled)
	case OrderStatusProcessing:
		return o.allow(target, OrderStatusShipped, OrderStatusCompleted, OrderStatusCancelled, OrderStatusRefunded)
	case OrderStatusShipped:
		return o.allow(target, OrderStatusDelivered, OrderStatusRefunded)
	case OrderStatusDelivered:
		return o.allow(target, OrderStatusCompleted, OrderStatusRefunded)
	case OrderStatusCompleted:
		return o.allow(target, OrderStatusRefunded)
	}
	return ErrInvalidTransition
}

func (o *Order) allow(target OrderStatus, allowed ...OrderStatus) error {
	if slices.Contains(allowed, target) {
		return nil
	}
	return ErrInvalidTransition
}

// MarkProcessing is applied when the linked payment is executed.
func (o *Order) MarkProcessing() error {
	return o.transition(OrderStatusProcessing)
}

// MarkRefunded is applied only when the linked payment is fully refunded.
func (o *Order) MarkRefunded() error {
	return o.transition(OrderStatusRefunded)
}

func (o *Order) MarkCancelled() error {
	return o.transition(OrderStatusCancelled)
}

// generateOrderNumber produces identifiers like ORD-3F9A01BC.
func generateOrderNumber() string {
	buf := make([]byte, 4)
	rand.Read(buf)
	return "ORD-" + strings.ToUpper(hex.EncodeToString(buf))
}

// ReconstituteOrder - Special constructor for loading from DB
func ReconstituteOrder(
	id, orderNumber string,
	status OrderStatus,
	subtotal, tax, shipping, total Money,
	customerEmail, customerName string,
	createdAt, updatedAt time.Time,
) *Order {
	return &Order{
		ID:            id,
		OrderNumber:   orderNumber,
		Status:        status,
		Subtotal:      subtotal,
		Tax:           tax,
		Shipping:      shipping,
		Total:         total,
		CustomerEmail: customerEmail,
		CustomerName:  customerName,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}
}
