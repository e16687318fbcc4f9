// Package metrics exposes the service's operational counters.
package metrics

import (
	"net/http"

	vm "github.com/VictoriaMetrics/metrics"
)

var (
	PaymentsCreated  = vm.NewCounter(`paygate_payments_created_total`)
	PaymentsExecuted = vm.NewCounter(`paygate_payments_executed_total`)
	PaymentsCaptured = vm.NewCounter(`paygate_payments_captured_total`)
	PaymentsRefunded = vm.NewCounter(`paygate_payments_refunded_total`)
	PaymentsVoided   = vm.NewCounter(`paygate_payments_voided_total`)
	PaymentsFailed   = vm.NewCounter(`paygate_payments_failed_total`)

	IdempotentHits = vm.NewCounter(`paygate_idempotent_hits_total`)

	WebhooksReceived  = vm.NewCounter(`paygate_webhooks_received_total`)
	WebhooksDuplicate = vm.NewCounter(`paygate_webhooks_duplicate_total`)
	WebhooksProcessed = vm.NewCounter(`paygate_webhooks_processed_total`)
	WebhooksFailed    = vm.NewCounter(`paygate_webhooks_failed_total`)
)

// Handler serves the /metrics endpoint in Prometheus text format.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		vm.WritePrometheus(w, true)
	})
}
