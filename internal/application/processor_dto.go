package application

import (
	"github.com/stackpay/paygate/internal/domain"
)

// Request and response values for the processor port. Requests are built
// once and never mutated after being handed to the client.

type CreatePaymentRequest struct {
	Intent      domain.PaymentIntent
	Amount      domain.Money
	Description string
	ReturnURL   string
	CancelURL   string
}

type CreatePaymentResponse struct {
	ProcessorPaymentID string
	ApprovalURL        string
}

type ExecutePaymentRequest struct {
	ProcessorPaymentID string
	PayerID            string
}

// ExecutePaymentResponse carries whichever sub-resource the processor
// produced for the payment's intent; the one not applicable is nil.
type ExecutePaymentResponse struct {
	Sale          *SaleResource
	Authorization *AuthorizationResource
	PayerID       string
	PayerEmail    string
	PayerName     string
}

type SaleResource struct {
	SaleID string
	Amount domain.Money
}

type AuthorizationResource struct {
	AuthorizationID string
	Amount          domain.Money
}

type CaptureRequest struct {
	AuthorizationID string
	Amount          domain.Money
	IsFinalCapture  bool
}

type CaptureResponse struct {
	CaptureID string
	State     string
}

type RefundRequest struct {
	// TransactionID is the sale id for RefundSale and the capture id for
	// RefundCapture.
	TransactionID string
	Amount        domain.Money
}

type RefundResponse struct {
	RefundID string
	State    string
}

type VoidResponse struct {
	VoidID string
	State  string
}
