package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/stackpay/paygate/internal/application"
	"github.com/stackpay/paygate/internal/application/services"
	"github.com/stackpay/paygate/internal/interfaces/rest"
)

type createOrderRequest struct {
	Subtotal      string `json:"subtotal"`
	Tax           string `json:"tax"`
	Shipping      string `json:"shipping"`
	Currency      string `json:"currency"`
	CustomerEmail string `json:"customer_email"`
	CustomerName  string `json:"customer_name"`
}

func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err))
		return
	}

	order, err := h.orders.Create(r.Context(), services.CreateOrderCommand{
		Subtotal:      req.Subtotal,
		Tax:           req.Tax,
		Shipping:      req.Shipping,
		Currency:      req.Currency,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
	})
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, rest.ToOrderView(order))
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, rest.ToOrderView(order))
}
