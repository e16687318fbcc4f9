// Package paypal implements the processor port against the PayPal v1
// payments API.
package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/stackpay/paygate/internal/application"
	"github.com/stackpay/paygate/internal/config"
	"github.com/stackpay/paygate/internal/domain"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     *tokenSource
}

func NewClient(cfg config.PayPalConfig) *Client {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
		tokens:     newTokenSource(cfg.BaseURL, cfg.ClientID, cfg.ClientSecret, httpClient),
	}
}

var _ application.ProcessorClient = (*Client)(nil)

func (c *Client) CreatePayment(ctx context.Context, req application.CreatePaymentRequest) (*application.CreatePaymentResponse, error) {
	url := fmt.Sprintf("%s/v1/payments/payment", c.baseURL)
	body := createPaymentBody{
		Intent: wireIntent(req.Intent),
		Payer:  payerBody{PaymentMethod: "paypal"},
		Transactions: []transactionBody{{
			Amount:      wireAmount(req.Amount),
			Description: req.Description,
		}},
		RedirectURLs: redirectURLsBody{ReturnURL: req.ReturnURL, CancelURL: req.CancelURL},
	}

	resp, err := sendRequest[createPaymentBody, paymentResource](c, ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, err
	}

	approvalURL := resp.linkByRel("approval_url")
	if resp.ID == "" || approvalURL == "" {
		return nil, &application.ProcessorError{
			Code:       "malformed_response",
			Message:    "create response missing payment id or approval link",
			StatusCode: http.StatusBadGateway,
		}
	}
	return &application.CreatePaymentResponse{
		ProcessorPaymentID: resp.ID,
		ApprovalURL:        approvalURL,
	}, nil
}

func (c *Client) ExecutePayment(ctx context.Context, req application.ExecutePaymentRequest) (*application.ExecutePaymentResponse, error) {
	url := fmt.Sprintf("%s/v1/payments/payment/%s/execute", c.baseURL, req.ProcessorPaymentID)
	body := executePaymentBody{PayerID: req.PayerID}

	resp, err := sendRequest[executePaymentBody, paymentResource](c, ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, err
	}
	return resp.toExecuteResponse()
}

func (c *Client) CaptureAuthorization(ctx context.Context, req application.CaptureRequest) (*application.CaptureResponse, error) {
	url := fmt.Sprintf("%s/v1/payments/authorization/%s/capture", c.baseURL, req.AuthorizationID)
	body := captureBody{
		Amount:         wireAmount(req.Amount),
		IsFinalCapture: req.IsFinalCapture,
	}

	resp, err := sendRequest[captureBody, captureResource](c, ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, err
	}
	return &application.CaptureResponse{CaptureID: resp.ID, State: resp.State}, nil
}

func (c *Client) RefundSale(ctx context.Context, req application.RefundRequest) (*application.RefundResponse, error) {
	url := fmt.Sprintf("%s/v1/payments/sale/%s/refund", c.baseURL, req.TransactionID)
	return c.refund(ctx, url, req)
}

func (c *Client) RefundCapture(ctx context.Context, req application.RefundRequest) (*application.RefundResponse, error) {
	url := fmt.Sprintf("%s/v1/payments/capture/%s/refund", c.baseURL, req.TransactionID)
	return c.refund(ctx, url, req)
}

func (c *Client) refund(ctx context.Context, url string, req application.RefundRequest) (*application.RefundResponse, error) {
	body := refundBody{Amount: wireAmount(req.Amount)}
	resp, err := sendRequest[refundBody, refundResource](c, ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, err
	}
	return &application.RefundResponse{RefundID: resp.ID, State: resp.State}, nil
}

func (c *Client) VoidAuthorization(ctx context.Context, authorizationID string) (*application.VoidResponse, error) {
	url := fmt.Sprintf("%s/v1/payments/authorization/%s/void", c.baseURL, authorizationID)
	resp, err := sendRequest[struct{}, voidResource](c, ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, err
	}
	return &application.VoidResponse{VoidID: resp.ID, State: resp.State}, nil
}

// wireIntent maps lifecycle intents onto the v1 API's vocabulary.
func wireIntent(intent domain.PaymentIntent) string {
	if intent == domain.IntentAuthorize {
		return "authorize"
	}
	return "sale"
}

func sendRequest[Req any, Resp any](c *Client, ctx context.Context, method, url string, reqBody *Req) (*Resp, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("error marshalling json: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+token)
	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err != nil || errResp.Name == "" {
			return nil, fmt.Errorf("processor returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, &application.ProcessorError{
			Code:       errResp.Name,
			Message:    errResp.Message,
			StatusCode: resp.StatusCode,
		}
	}

	var decoded Resp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("error decoding json response: %w", err)
	}
	return &decoded, nil
}
