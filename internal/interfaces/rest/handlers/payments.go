package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stackpay/paygate/internal/application"
	"github.com/stackpay/paygate/internal/application/services"
	"github.com/stackpay/paygate/internal/interfaces/rest"
)

type createPaymentRequest struct {
	Intent      string  `json:"intent"`
	Amount      string  `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
	OrderID     *string `json:"order_id,omitempty"`
	ReturnURL   string  `json:"return_url"`
	CancelURL   string  `json:"cancel_url"`
}

func (h *Handlers) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err))
		return
	}

	cmd := services.CreatePaymentCommand{
		Intent:         req.Intent,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Description:    req.Description,
		OrderID:        req.OrderID,
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
		ReturnURL:      req.ReturnURL,
		CancelURL:      req.CancelURL,
	}

	payment, err := h.payments.Create(r.Context(), cmd)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, rest.ToPaymentView(payment))
}

type executePaymentRequest struct {
	PaymentID string `json:"payment_id"`
	PayerID   string `json:"payer_id"`
}

func (h *Handlers) ExecutePayment(w http.ResponseWriter, r *http.Request) {
	var req executePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err))
		return
	}
	if req.PaymentID == "" {
		rest.WriteError(w, application.NewInvalidInputError(errors.New("payment_id is required")))
		return
	}

	payment, err := h.payments.Execute(r.Context(), services.ExecutePaymentCommand{
		ProcessorPaymentID: req.PaymentID,
		PayerID:            req.PayerID,
	})
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, rest.ToPaymentView(payment))
}

type capturePaymentRequest struct {
	AuthorizationID string `json:"authorization_id"`
	Amount          string `json:"amount"`
	Currency        string `json:"currency"`
	Final           bool   `json:"final"`
}

func (h *Handlers) CapturePayment(w http.ResponseWriter, r *http.Request) {
	var req capturePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err))
		return
	}
	if req.AuthorizationID == "" {
		rest.WriteError(w, application.NewInvalidInputError(errors.New("authorization_id is required")))
		return
	}

	payment, err := h.payments.Capture(r.Context(), services.CaptureCommand{
		AuthorizationID: req.AuthorizationID,
		Amount:          req.Amount,
		Currency:        req.Currency,
		Final:           req.Final,
	})
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, rest.ToPaymentView(payment))
}

type refundPaymentRequest struct {
	CaptureID string  `json:"capture_id"`
	Amount    *string `json:"amount,omitempty"`
	Currency  string  `json:"currency,omitempty"`
	Reason    string  `json:"reason,omitempty"`
}

func (h *Handlers) RefundPayment(w http.ResponseWriter, r *http.Request) {
	var req refundPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err))
		return
	}
	if req.CaptureID == "" {
		rest.WriteError(w, application.NewInvalidInputError(errors.New("capture_id is required")))
		return
	}

	payment, err := h.payments.Refund(r.Context(), services.RefundCommand{
		CaptureID: req.CaptureID,
		Amount:    req.Amount,
		Currency:  req.Currency,
		Reason:    req.Reason,
	})
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, rest.ToPaymentView(payment))
}

func (h *Handlers) VoidPayment(w http.ResponseWriter, r *http.Request) {
	payment, err := h.payments.Void(r.Context(), services.VoidCommand{PaymentID: r.PathValue("id")})
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, rest.ToPaymentView(payment))
}

func (h *Handlers) GetPayment(w http.ResponseWriter, r *http.Request) {
	payment, err := h.payments.GetPayment(r.Context(), r.PathValue("id"))
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, rest.ToPaymentView(payment))
}
