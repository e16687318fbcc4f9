package services

type CreatePaymentCommand struct {
	Intent         string
	Amount         string
	Currency       string
	Description    string
	OrderID        *string
	IdempotencyKey string
	ReturnURL      string
	CancelURL      string
}

type ExecutePaymentCommand struct {
	ProcessorPaymentID string
	PayerID            string
}

type CaptureCommand struct {
	AuthorizationID string
	Amount          string
	Currency        string
	Final           bool
}

type RefundCommand struct {
	CaptureID string
	// Amount is optional; when nil the full refundable remainder is returned.
	Amount   *string
	Currency string
	Reason   string
}

type VoidCommand struct {
	PaymentID string
}

type CreateOrderCommand struct {
	Subtotal      string
	Tax           string
	Shipping      string
	Currency      string
	CustomerEmail string
	CustomerName  string
}
