package paypal

import (
	"net/http"

	"github.com/stackpay/paygate/internal/application"
	"github.com/stackpay/paygate/internal/domain"
)

// Wire bodies for the v1 payments API. Request bodies are assembled once
// per call and never reused.

type amountBody struct {
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

func wireAmount(m domain.Money) amountBody {
	return amountBody{Total: m.StringFixed(), Currency: m.Currency}
}

type payerBody struct {
	PaymentMethod string `json:"payment_method"`
}

type transactionBody struct {
	Amount      amountBody `json:"amount"`
	Description string     `json:"description,omitempty"`
}

type redirectURLsBody struct {
	ReturnURL string `json:"return_url"`
	CancelURL string `json:"cancel_url"`
}

type createPaymentBody struct {
	Intent       string            `json:"intent"`
	Payer        payerBody         `json:"payer"`
	Transactions []transactionBody `json:"transactions"`
	RedirectURLs redirectURLsBody  `json:"redirect_urls"`
}

type executePaymentBody struct {
	PayerID string `json:"payer_id"`
}

type captureBody struct {
	Amount         amountBody `json:"amount"`
	IsFinalCapture bool       `json:"is_final_capture"`
}

type refundBody struct {
	Amount amountBody `json:"amount"`
}

type linkResource struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

type payerInfoResource struct {
	PayerID   string `json:"payer_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type saleResource struct {
	ID     string     `json:"id"`
	Amount amountBody `json:"amount"`
	State  string     `json:"state"`
}

type authorizationResource struct {
	ID     string     `json:"id"`
	Amount amountBody `json:"amount"`
	State  string     `json:"state"`
}

type relatedResource struct {
	Sale          *saleResource          `json:"sale,omitempty"`
	Authorization *authorizationResource `json:"authorization,omitempty"`
}

type transactionResource struct {
	Amount           amountBody        `json:"amount"`
	RelatedResources []relatedResource `json:"related_resources"`
}

type paymentResource struct {
	ID     string `json:"id"`
	Intent string `json:"intent"`
	State  string `json:"state"`
	Payer  struct {
		PayerInfo payerInfoResource `json:"payer_info"`
	} `json:"payer"`
	Transactions []transactionResource `json:"transactions"`
	Links        []linkResource        `json:"links"`
}

func (p *paymentResource) linkByRel(rel string) string {
	for _, link := range p.Links {
		if link.Rel == rel {
			return link.Href
		}
	}
	return ""
}

// toExecuteResponse lifts the nested v1 payment resource into the port's
// flat response. Missing sub-resources stay nil; the orchestrator decides
// what that means for the payment.
func (p *paymentResource) toExecuteResponse() (*application.ExecutePaymentResponse, error) {
	info := p.Payer.PayerInfo
	resp := &application.ExecutePaymentResponse{
		PayerID:    info.PayerID,
		PayerEmail: info.Email,
		PayerName:  joinName(info.FirstName, info.LastName),
	}

	if len(p.Transactions) == 0 || len(p.Transactions[0].RelatedResources) == 0 {
		return resp, nil
	}

	related := p.Transactions[0].RelatedResources[0]
	if related.Sale != nil {
		amount, err := parseWireAmount(related.Sale.Amount)
		if err != nil {
			return nil, err
		}
		resp.Sale = &application.SaleResource{SaleID: related.Sale.ID, Amount: amount}
	}
	if related.Authorization != nil {
		amount, err := parseWireAmount(related.Authorization.Amount)
		if err != nil {
			return nil, err
		}
		resp.Authorization = &application.AuthorizationResource{AuthorizationID: related.Authorization.ID, Amount: amount}
	}
	return resp, nil
}

func parseWireAmount(a amountBody) (domain.Money, error) {
	m, err := domain.MoneyFromString(a.Total, a.Currency)
	if err != nil {
		return domain.Money{}, &application.ProcessorError{
			Code:       "malformed_response",
			Message:    "unparseable amount in processor response: " + a.Total,
			StatusCode: http.StatusBadGateway,
		}
	}
	return m, nil
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}

type captureResource struct {
	ID    string `json:"id"`
	State string `json:"state"`
}

type refundResource struct {
	ID    string `json:"id"`
	State string `json:"state"`
}

type voidResource struct {
	ID    string `json:"id"`
	State string `json:"state"`
}

type errorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}
