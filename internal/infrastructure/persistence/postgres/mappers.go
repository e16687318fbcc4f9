package postgres

import (
	"github.com/stackpay/paygate/internal/domain"
)

func toPaymentModel(p *domain.Payment) PaymentModel {
	return PaymentModel{
		ID:                 p.ID,
		IdempotencyKey:     p.IdempotencyKey,
		Intent:             string(p.Intent),
		Status:             string(p.Status),
		Amount:             p.Amount.Amount,
		Currency:           p.Amount.Currency,
		AuthorizedAmount:   p.AuthorizedAmount.Amount,
		CapturedAmount:     p.CapturedAmount.Amount,
		RefundedAmount:     p.RefundedAmount.Amount,
		Description:        p.Description,
		RefundReason:       p.RefundReason,
		OrderID:            p.OrderID,
		ProcessorPaymentID: p.ProcessorPaymentID,
		SaleID:             p.SaleID,
		AuthorizationID:    p.AuthorizationID,
		CaptureID:          p.CaptureID,
		PayerID:            p.PayerID,
		PayerEmail:         p.PayerEmail,
		PayerName:          p.PayerName,
		ApprovalURL:        p.ApprovalURL,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
		CompletedAt:        p.CompletedAt,
	}
}

func toPaymentDomain(m PaymentModel) *domain.Payment {
	return domain.ReconstitutePayment(
		m.ID, m.IdempotencyKey,
		domain.PaymentIntent(m.Intent),
		domain.PaymentStatus(m.Status),
		domain.Money{Amount: m.Amount, Currency: m.Currency},
		domain.Money{Amount: m.AuthorizedAmount, Currency: m.Currency},
		domain.Money{Amount: m.CapturedAmount, Currency: m.Currency},
		domain.Money{Amount: m.RefundedAmount, Currency: m.Currency},
		m.Description,
		m.RefundReason,
		m.OrderID,
		m.ProcessorPaymentID, m.SaleID, m.AuthorizationID, m.CaptureID,
		m.PayerID, m.PayerEmail, m.PayerName,
		m.ApprovalURL,
		m.CreatedAt, m.UpdatedAt,
		m.CompletedAt,
	)
}

func toOrderModel(o *domain.Order) OrderModel {
	return OrderModel{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		Status:        string(o.Status),
		Subtotal:      o.Subtotal.Amount,
		Tax:           o.Tax.Amount,
		Shipping:      o.Shipping.Amount,
		Total:         o.Total.Amount,
		Currency:      o.Total.Currency,
		CustomerEmail: o.CustomerEmail,
		CustomerName:  o.CustomerName,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func toOrderDomain(m OrderModel) *domain.Order {
	return domain.ReconstituteOrder(
		m.ID, m.OrderNumber,
		domain.OrderStatus(m.Status),
		domain.Money{Amount: m.Subtotal, Currency: m.Currency},
		domain.Money{Amount: m.Tax, Currency: m.Currency},
		domain.Money{Amount: m.Shipping, Currency: m.Currency},
		domain.Money{Amount: m.Total, Currency: m.Currency},
		m.CustomerEmail, m.CustomerName,
		m.CreatedAt, m.UpdatedAt,
	)
}

func toSubscriptionModel(s *domain.Subscription) SubscriptionModel {
	return SubscriptionModel{
		ID:                      s.ID,
		ProcessorSubscriptionID: s.ProcessorSubscriptionID,
		PlanName:                s.PlanName,
		Amount:                  s.Amount.Amount,
		Currency:                s.Amount.Currency,
		BillingCycle:            string(s.BillingCycle),
		Status:                  string(s.Status),
		PayerEmail:              s.PayerEmail,
		CreatedAt:               s.CreatedAt,
		UpdatedAt:               s.UpdatedAt,
		ActivatedAt:             s.ActivatedAt,
		CancelledAt:             s.CancelledAt,
	}
}

func toSubscriptionDomain(m SubscriptionModel) *domain.Subscription {
	return domain.ReconstituteSubscription(
		m.ID, m.ProcessorSubscriptionID, m.PlanName,
		domain.Money{Amount: m.Amount, Currency: m.Currency},
		domain.BillingCycle(m.BillingCycle),
		domain.SubscriptionStatus(m.Status),
		m.PayerEmail,
		m.CreatedAt, m.UpdatedAt,
		m.ActivatedAt, m.CancelledAt,
	)
}

func toWebhookEventModel(e *domain.WebhookEvent) WebhookEventModel {
	return WebhookEventModel{
		ID:           e.ID,
		EventID:      e.EventID,
		EventType:    e.RawEventType,
		ResourceType: e.ResourceType,
		ResourceID:   e.ResourceID,
		Payload:      e.Payload,
		Processed:    e.Processed,
		ReceivedAt:   e.ReceivedAt,
		ProcessedAt:  e.ProcessedAt,
	}
}

func toWebhookEventDomain(m WebhookEventModel) *domain.WebhookEvent {
	return domain.ReconstituteWebhookEvent(
		m.ID, m.EventID, m.EventType, m.ResourceType, m.ResourceID,
		m.Payload,
		m.Processed,
		m.ReceivedAt,
		m.ProcessedAt,
	)
}
