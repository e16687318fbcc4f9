package paypal_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stackpay/paygate/internal/application"
	"github.com/stackpay/paygate/internal/config"
	"github.com/stackpay/paygate/internal/domain"
	"github.com/stackpay/paygate/internal/infrastructure/paypal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProcessor stands in for the v1 API. Each route handler is optional;
// unrouted requests fail the test.
type fakeProcessor struct {
	t           *testing.T
	mux         *http.ServeMux
	server      *httptest.Server
	tokenCalls  atomic.Int64
	lastAuthHdr atomic.Value
}

func newFakeProcessor(t *testing.T) *fakeProcessor {
	t.Helper()
	f := &fakeProcessor{t: t, mux: http.NewServeMux()}

	f.mux.HandleFunc("POST /v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok, "token request must use basic auth")
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)
		f.tokenCalls.Add(1)
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"expires_in":   3600,
		})
	})

	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/oauth2/token" {
			f.lastAuthHdr.Store(r.Header.Get("Authorization"))
		}
		f.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeProcessor) client() *paypal.Client {
	return paypal.NewClient(config.PayPalConfig{
		BaseURL:      f.server.URL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Timeout:      5 * time.Second,
	})
}

func (f *fakeProcessor) handle(pattern string, status int, body string) {
	f.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	})
}

func money(t *testing.T, value string) domain.Money {
	t.Helper()
	m, err := domain.MoneyFromString(value, "USD")
	require.NoError(t, err)
	return m
}

func TestClient_CreatePayment(t *testing.T) {
	t.Run("returns payment id and approval link", func(t *testing.T) {
		f := newFakeProcessor(t)
		f.mux.HandleFunc("POST /v1/payments/payment", func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "sale", body["intent"])
			transactions := body["transactions"].([]any)
			amount := transactions[0].(map[string]any)["amount"].(map[string]any)
			assert.Equal(t, "100.00", amount["total"])
			assert.Equal(t, "USD", amount["currency"])

			json.NewEncoder(w).Encode(map[string]any{
				"id":    "PAYID-1",
				"state": "created",
				"links": []map[string]string{
					{"rel": "self", "href": "https://processor.example/self"},
					{"rel": "approval_url", "href": "https://processor.example/approve"},
				},
			})
		})

		resp, err := f.client().CreatePayment(context.Background(), application.CreatePaymentRequest{
			Intent:      domain.IntentCapture,
			Amount:      money(t, "100.00"),
			Description: "Premium Widget",
			ReturnURL:   "https://merchant.example/return",
			CancelURL:   "https://merchant.example/cancel",
		})

		require.NoError(t, err)
		assert.Equal(t, "PAYID-1", resp.ProcessorPaymentID)
		assert.Equal(t, "https://processor.example/approve", resp.ApprovalURL)
		assert.Equal(t, "Bearer test-token", f.lastAuthHdr.Load())
	})

	t.Run("sends authorize intent for holds", func(t *testing.T) {
		f := newFakeProcessor(t)
		f.mux.HandleFunc("POST /v1/payments/payment", func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "authorize", body["intent"])
			json.NewEncoder(w).Encode(map[string]any{
				"id":    "PAYID-2",
				"links": []map[string]string{{"rel": "approval_url", "href": "https://processor.example/approve"}},
			})
		})

		_, err := f.client().CreatePayment(context.Background(), application.CreatePaymentRequest{
			Intent: domain.IntentAuthorize,
			Amount: money(t, "50.00"),
		})

		require.NoError(t, err)
	})

	t.Run("missing approval link is a processor error", func(t *testing.T) {
		f := newFakeProcessor(t)
		f.handle("POST /v1/payments/payment", http.StatusOK, `{"id":"PAYID-3","links":[]}`)

		_, err := f.client().CreatePayment(context.Background(), application.CreatePaymentRequest{
			Intent: domain.IntentCapture,
			Amount: money(t, "10.00"),
		})

		procErr, ok := application.IsProcessorError(err)
		require.True(t, ok)
		assert.Equal(t, "malformed_response", procErr.Code)
	})

	t.Run("api error body maps to a processor error", func(t *testing.T) {
		f := newFakeProcessor(t)
		f.handle("POST /v1/payments/payment", http.StatusBadRequest,
			`{"name":"VALIDATION_ERROR","message":"Invalid request"}`)

		_, err := f.client().CreatePayment(context.Background(), application.CreatePaymentRequest{
			Intent: domain.IntentCapture,
			Amount: money(t, "10.00"),
		})

		procErr, ok := application.IsProcessorError(err)
		require.True(t, ok)
		assert.Equal(t, "VALIDATION_ERROR", procErr.Code)
		assert.Equal(t, http.StatusBadRequest, procErr.StatusCode)
	})
}

func TestClient_ExecutePayment(t *testing.T) {
	t.Run("parses the sale resource and payer info", func(t *testing.T) {
		f := newFakeProcessor(t)
		f.handle("POST /v1/payments/payment/PAYID-1/execute", http.StatusOK, `{
			"id": "PAYID-1",
			"state": "approved",
			"payer": {"payer_info": {"payer_id": "PAYER-1", "email": "buyer@example.com", "first_name": "Test", "last_name": "Buyer"}},
			"transactions": [{
				"amount": {"total": "100.00", "currency": "USD"},
				"related_resources": [{"sale": {"id": "SALE-1", "state": "completed", "amount": {"total": "100.00", "currency": "USD"}}}]
			}]
		}`)

		resp, err := f.client().ExecutePayment(context.Background(), application.ExecutePaymentRequest{
			ProcessorPaymentID: "PAYID-1",
			PayerID:            "PAYER-1",
		})

		require.NoError(t, err)
		require.NotNil(t, resp.Sale)
		assert.Nil(t, resp.Authorization)
		assert.Equal(t, "SALE-1", resp.Sale.SaleID)
		assert.Equal(t, "100.00", resp.Sale.Amount.StringFixed())
		assert.Equal(t, "PAYER-1", resp.PayerID)
		assert.Equal(t, "buyer@example.com", resp.PayerEmail)
		assert.Equal(t, "Test Buyer", resp.PayerName)
	})

	t.Run("parses the authorization resource", func(t *testing.T) {
		f := newFakeProcessor(t)
		f.handle("POST /v1/payments/payment/PAYID-2/execute", http.StatusOK, `{
			"id": "PAYID-2",
			"payer": {"payer_info": {"payer_id": "PAYER-2"}},
			"transactions": [{
				"related_resources": [{"authorization": {"id": "AUTH-1", "state": "authorized", "amount": {"total": "50.00", "currency": "USD"}}}]
			}]
		}`)

		resp, err := f.client().ExecutePayment(context.Background(), application.ExecutePaymentRequest{
			ProcessorPaymentID: "PAYID-2",
			PayerID:            "PAYER-2",
		})

		require.NoError(t, err)
		require.NotNil(t, resp.Authorization)
		assert.Nil(t, resp.Sale)
		assert.Equal(t, "AUTH-1", resp.Authorization.AuthorizationID)
		assert.Equal(t, "50.00", resp.Authorization.Amount.StringFixed())
	})

	t.Run("missing related resources leaves both nil", func(t *testing.T) {
		f := newFakeProcessor(t)
		f.handle("POST /v1/payments/payment/PAYID-3/execute", http.StatusOK,
			`{"id":"PAYID-3","payer":{"payer_info":{"payer_id":"PAYER-3"}},"transactions":[]}`)

		resp, err := f.client().ExecutePayment(context.Background(), application.ExecutePaymentRequest{
			ProcessorPaymentID: "PAYID-3",
			PayerID:            "PAYER-3",
		})

		require.NoError(t, err)
		assert.Nil(t, resp.Sale)
		assert.Nil(t, resp.Authorization)
	})

	t.Run("unparseable amount is a processor error", func(t *testing.T) {
		f := newFakeProcessor(t)
		f.handle("POST /v1/payments/payment/PAYID-4/execute", http.StatusOK, `{
			"id": "PAYID-4",
			"transactions": [{
				"related_resources": [{"sale": {"id": "SALE-X", "amount": {"total": "not-a-number", "currency": "USD"}}}]
			}]
		}`)

		_, err := f.client().ExecutePayment(context.Background(), application.ExecutePaymentRequest{
			ProcessorPaymentID: "PAYID-4",
			PayerID:            "PAYER-4",
		})

		procErr, ok := application.IsProcessorError(err)
		require.True(t, ok)
		assert.Equal(t, "malformed_response", procErr.Code)
	})
}

func TestClient_CaptureAuthorization(t *testing.T) {
	f := newFakeProcessor(t)
	f.mux.HandleFunc("POST /v1/payments/authorization/AUTH-1/capture", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, true, body["is_final_capture"])
		amount := body["amount"].(map[string]any)
		assert.Equal(t, "50.00", amount["total"])
		json.NewEncoder(w).Encode(map[string]string{"id": "CAP-1", "state": "completed"})
	})

	resp, err := f.client().CaptureAuthorization(context.Background(), application.CaptureRequest{
		AuthorizationID: "AUTH-1",
		Amount:          money(t, "50.00"),
		IsFinalCapture:  true,
	})

	require.NoError(t, err)
	assert.Equal(t, "CAP-1", resp.CaptureID)
	assert.Equal(t, "completed", resp.State)
}

func TestClient_Refunds(t *testing.T) {
	t.Run("sale refund posts to the sale endpoint", func(t *testing.T) {
		f := newFakeProcessor(t)
		f.handle("POST /v1/payments/sale/SALE-1/refund", http.StatusOK, `{"id":"REF-1","state":"completed"}`)

		resp, err := f.client().RefundSale(context.Background(), application.RefundRequest{
			TransactionID: "SALE-1",
			Amount:        money(t, "25.00"),
		})

		require.NoError(t, err)
		assert.Equal(t, "REF-1", resp.RefundID)
	})

	t.Run("capture refund posts to the capture endpoint", func(t *testing.T) {
		f := newFakeProcessor(t)
		f.handle("POST /v1/payments/capture/CAP-1/refund", http.StatusOK, `{"id":"REF-2","state":"completed"}`)

		resp, err := f.client().RefundCapture(context.Background(), application.RefundRequest{
			TransactionID: "CAP-1",
			Amount:        money(t, "25.00"),
		})

		require.NoError(t, err)
		assert.Equal(t, "REF-2", resp.RefundID)
	})
}

func TestClient_VoidAuthorization(t *testing.T) {
	f := newFakeProcessor(t)
	f.handle("POST /v1/payments/authorization/AUTH-1/void", http.StatusOK, `{"id":"VOID-1","state":"voided"}`)

	resp, err := f.client().VoidAuthorization(context.Background(), "AUTH-1")

	require.NoError(t, err)
	assert.Equal(t, "VOID-1", resp.VoidID)
	assert.Equal(t, "voided", resp.State)
}

func TestClient_TokenCaching(t *testing.T) {
	f := newFakeProcessor(t)
	f.handle("POST /v1/payments/authorization/AUTH-1/void", http.StatusOK, `{"id":"VOID-1","state":"voided"}`)
	client := f.client()

	for range 3 {
		_, err := client.VoidAuthorization(context.Background(), "AUTH-1")
		require.NoError(t, err)
	}

	assert.Equal(t, int64(1), f.tokenCalls.Load(), "token should be fetched once and cached")
}

func TestClient_TokenFailure(t *testing.T) {
	f := newFakeProcessor(t)
	// Re-register the token route with a failure.
	f.mux = http.NewServeMux()
	f.mux.HandleFunc("POST /v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_client"}`))
	})

	_, err := f.client().VoidAuthorization(context.Background(), "AUTH-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
