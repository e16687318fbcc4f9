package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/stackpay/paygate/internal/domain"
)

type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// WriteJSON writes the success envelope with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(SuccessResponse{Success: true, Data: data})
}

// PaymentView is the API representation of a payment. Amounts are decimal
// strings with two fraction digits.
type PaymentView struct {
	ID                 string     `json:"id"`
	Intent             string     `json:"intent"`
	Status             string     `json:"status"`
	Amount             string     `json:"amount"`
	Currency           string     `json:"currency"`
	AuthorizedAmount   string     `json:"authorized_amount"`
	CapturedAmount     string     `json:"captured_amount"`
	RefundedAmount     string     `json:"refunded_amount"`
	Description        string     `json:"description"`
	RefundReason       *string    `json:"refund_reason,omitempty"`
	OrderID            *string    `json:"order_id,omitempty"`
	ProcessorPaymentID *string    `json:"processor_payment_id,omitempty"`
	SaleID             *string    `json:"sale_id,omitempty"`
	AuthorizationID    *string    `json:"authorization_id,omitempty"`
	CaptureID          *string    `json:"capture_id,omitempty"`
	PayerEmail         *string    `json:"payer_email,omitempty"`
	PayerName          *string    `json:"payer_name,omitempty"`
	ApprovalURL        *string    `json:"approval_url,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
}

func ToPaymentView(p *domain.Payment) PaymentView {
	return PaymentView{
		ID:                 p.ID,
		Intent:             string(p.Intent),
		Status:             string(p.Status),
		Amount:             p.Amount.StringFixed(),
		Currency:           p.Amount.Currency,
		AuthorizedAmount:   p.AuthorizedAmount.StringFixed(),
		CapturedAmount:     p.CapturedAmount.StringFixed(),
		RefundedAmount:     p.RefundedAmount.StringFixed(),
		Description:        p.Description,
		RefundReason:       p.RefundReason,
		OrderID:            p.OrderID,
		ProcessorPaymentID: p.ProcessorPaymentID,
		SaleID:             p.SaleID,
		AuthorizationID:    p.AuthorizationID,
		CaptureID:          p.CaptureID,
		PayerEmail:         p.PayerEmail,
		PayerName:          p.PayerName,
		ApprovalURL:        p.ApprovalURL,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
		CompletedAt:        p.CompletedAt,
	}
}

type OrderView struct {
	ID            string    `json:"id"`
	OrderNumber   string    `json:"order_number"`
	Status        string    `json:"status"`
	Subtotal      string    `json:"subtotal"`
	Tax           string    `json:"tax"`
	Shipping      string    `json:"shipping"`
	Total         string    `json:"total"`
	Currency      string    `json:"currency"`
	CustomerEmail string    `json:"customer_email"`
	CustomerName  string    `json:"customer_name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func ToOrderView(o *domain.Order) OrderView {
	return OrderView{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		Status:        string(o.Status),
		Subtotal:      o.Subtotal.StringFixed(),
		Tax:           o.Tax.StringFixed(),
		Shipping:      o.Shipping.StringFixed(),
		Total:         o.Total.StringFixed(),
		Currency:      o.Total.Currency,
		CustomerEmail: o.CustomerEmail,
		CustomerName:  o.CustomerName,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}
