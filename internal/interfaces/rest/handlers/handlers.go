// Package handlers exposes the payment API over plain net/http.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/stackpay/paygate/internal/application/services"
	"github.com/stackpay/paygate/internal/metrics"
)

type Handlers struct {
	payments *services.PaymentService
	orders   *services.OrderService
	webhooks *services.WebhookService
	logger   *slog.Logger
}

func NewHandlers(
	payments *services.PaymentService,
	orders *services.OrderService,
	webhooks *services.WebhookService,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		payments: payments,
		orders:   orders,
		webhooks: webhooks,
		logger:   logger,
	}
}

// Register wires all routes onto the mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/payments", h.CreatePayment)
	mux.HandleFunc("POST /api/payments/execute", h.ExecutePayment)
	mux.HandleFunc("POST /api/payments/capture", h.CapturePayment)
	mux.HandleFunc("POST /api/payments/refund", h.RefundPayment)
	mux.HandleFunc("POST /api/payments/{id}/void", h.VoidPayment)
	mux.HandleFunc("GET /api/payments/{id}", h.GetPayment)

	mux.HandleFunc("POST /api/orders", h.CreateOrder)
	mux.HandleFunc("GET /api/orders/{id}", h.GetOrder)

	mux.HandleFunc("POST /api/webhooks/paypal", h.HandleWebhook)

	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /health", h.Health)
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
