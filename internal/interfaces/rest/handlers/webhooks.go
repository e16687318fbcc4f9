package handlers

import (
	"io"
	"net/http"

	"github.com/stackpay/paygate/internal/application"
	"github.com/stackpay/paygate/internal/interfaces/rest"
)

// maxWebhookBody caps notification payloads at 1 MiB.
const maxWebhookBody = 1 << 20

// HandleWebhook ingests processor notifications. A 2xx acknowledges the
// delivery; any error response makes the processor redeliver later.
func (h *Handlers) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err))
		return
	}

	if err := h.webhooks.Process(r.Context(), payload); err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, map[string]string{"status": "received"})
}
