package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"creator-payment-ledger/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*AsaasGateway)(nil)

// AsaasGateway implements adapter.PaymentGateway against the Asaas
// REST API, PIX billing only. Amounts cross the wire as decimal reais;
// everything inside the ledger stays in centavos.
type AsaasGateway struct {
	accessToken string
	baseURL     string
	client      *http.Client
}

func NewAsaasGateway(baseURL, accessToken string, sandbox bool) *AsaasGateway {
	if baseURL == "" {
		baseURL = "https://api.asaas.com/v3"
		if sandbox {
			baseURL = "https://api-sandbox.asaas.com/v3"
		}
	}
	return &AsaasGateway{
		accessToken: accessToken,
		baseURL:     baseURL,
		client:      &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *AsaasGateway) Name() string { return "asaas" }

type asaasCustomer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	CPFCnpj string `json:"cpfCnpj"`
}

type asaasCustomerList struct {
	Data []asaasCustomer `json:"data"`
}

type asaasPayment struct {
	ID      string  `json:"id"`
	Status  string  `json:"status"`
	Value   float64 `json:"value"`
	DueDate string  `json:"dueDate"`
}

type asaasPixQR struct {
	Payload        string `json:"payload"`
	EncodedImage   string `json:"encodedImage"`
	ExpirationDate string `json:"expirationDate"`
}

type asaasError struct {
	Errors []struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"errors"`
}

func (g *AsaasGateway) CreateCustomer(ctx context.Context, name, email, taxID string) (string, error) {
	body := map[string]string{"name": name, "email": email}
	if taxID != "" {
		body["cpfCnpj"] = taxID
	}
	var out asaasCustomer
	if err := g.do(ctx, http.MethodPost, "/customers", body, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (g *AsaasGateway) FindCustomerByEmail(ctx context.Context, email string) (*adapter.Customer, error) {
	var out asaasCustomerList
	path := "/customers?email=" + url.QueryEscape(email)
	if err := g.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if len(out.Data) == 0 {
		return nil, nil
	}
	c := out.Data[0]
	return &adapter.Customer{ID: c.ID, Name: c.Name, Email: c.Email, TaxID: c.CPFCnpj}, nil
}

func (g *AsaasGateway) UpdateCustomer(ctx context.Context, id string, fields map[string]string) error {
	return g.do(ctx, http.MethodPut, "/customers/"+id, fields, nil)
}

// CreateCharge creates a PIX billing and fetches its QR code.
// externalReference carries the ledger payment id; the webhook sends
// it back and it is the only join key we trust.
func (g *AsaasGateway) CreateCharge(ctx context.Context, customerID string, value int64, description, externalReference string) (*adapter.Charge, error) {
	body := map[string]interface{}{
		"customer":          customerID,
		"billingType":       "PIX",
		"value":             centavosToReais(value),
		"dueDate":           time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
		"description":       description,
		"externalReference": externalReference,
	}
	var pay asaasPayment
	if err := g.do(ctx, http.MethodPost, "/payments", body, &pay); err != nil {
		return nil, err
	}

	var qr asaasPixQR
	if err := g.do(ctx, http.MethodGet, "/payments/"+pay.ID+"/pixQrCode", nil, &qr); err != nil {
		return nil, err
	}

	ch := &adapter.Charge{ID: pay.ID, QRPayload: qr.Payload, QRImage: qr.EncodedImage}
	if qr.ExpirationDate != "" {
		// Asaas timestamps carry no zone; they are Sao Paulo local time.
		if t, err := time.ParseInLocation("2006-01-02 15:04:05", qr.ExpirationDate, saoPaulo); err == nil {
			ch.ExpiresAt = &t
		}
	}
	return ch, nil
}

func (g *AsaasGateway) GetCharge(ctx context.Context, chargeID string) (adapter.ChargeStatus, error) {
	var pay asaasPayment
	if err := g.do(ctx, http.MethodGet, "/payments/"+chargeID, nil, &pay); err != nil {
		return "", err
	}
	return adapter.ChargeStatus(pay.Status), nil
}

func (g *AsaasGateway) Refund(ctx context.Context, chargeID string) error {
	return g.do(ctx, http.MethodPost, "/payments/"+chargeID+"/refund", map[string]string{}, nil)
}

func (g *AsaasGateway) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request data: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("access_token", g.accessToken)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr asaasError
		if json.Unmarshal(raw, &apiErr) == nil && len(apiErr.Errors) > 0 {
			return fmt.Errorf("asaas error: %s: %s", apiErr.Errors[0].Code, apiErr.Errors[0].Description)
		}
		return fmt.Errorf("asaas error: status %d, body: %s", resp.StatusCode, string(raw))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(raw))
		}
	}
	return nil
}

func centavosToReais(v int64) float64 {
	return float64(v) / 100
}

var saoPaulo = mustLoadLocation("America/Sao_Paulo")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
