//go:build !integration

package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newGatewayServer(t *testing.T, handler http.HandlerFunc) (*AsaasGateway, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAsaasGateway(srv.URL, "test-access-token", true), srv
}

func TestAsaasGateway_CreateCharge(t *testing.T) {
	var chargeBody map[string]interface{}
	gw, _ := newGatewayServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("access_token"); got != "test-access-token" {
			t.Errorf("access_token header = %q", got)
		}
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/payments":
			if err := json.NewDecoder(r.Body).Decode(&chargeBody); err != nil {
				t.Fatal(err)
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "pay_123", "status": "PENDING", "value": 10.99})
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/pixQrCode"):
			_ = json.NewEncoder(w).Encode(map[string]string{
				"payload":        "pix-copy-paste",
				"encodedImage":   "base64img",
				"expirationDate": "2026-09-01 23:59:59",
			})
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	charge, err := gw.CreateCharge(context.Background(), "cus_1", 1099, "Tip", "ledger-payment-id")
	if err != nil {
		t.Fatalf("CreateCharge() error = %v", err)
	}
	if charge.ID != "pay_123" || charge.QRPayload != "pix-copy-paste" || charge.QRImage != "base64img" {
		t.Errorf("charge = %+v", charge)
	}
	if charge.ExpiresAt == nil {
		t.Error("ExpiresAt not parsed")
	}

	// Centavos cross the wire as decimal reais.
	if v, _ := chargeBody["value"].(float64); v != 10.99 {
		t.Errorf("value = %v, want 10.99", chargeBody["value"])
	}
	if chargeBody["billingType"] != "PIX" {
		t.Errorf("billingType = %v", chargeBody["billingType"])
	}
	if chargeBody["externalReference"] != "ledger-payment-id" {
		t.Errorf("externalReference = %v", chargeBody["externalReference"])
	}
}

func TestAsaasGateway_FindCustomerByEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		gw, _ := newGatewayServer(t, func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("email"); got != "felipe@example.com" {
				t.Errorf("email query = %q", got)
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"data": []map[string]string{{"id": "cus_9", "email": "felipe@example.com"}},
			})
		})
		c, err := gw.FindCustomerByEmail(context.Background(), "felipe@example.com")
		if err != nil {
			t.Fatalf("FindCustomerByEmail() error = %v", err)
		}
		if c == nil || c.ID != "cus_9" {
			t.Errorf("customer = %+v", c)
		}
	})

	t.Run("absent customer is nil, not an error", func(t *testing.T) {
		gw, _ := newGatewayServer(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": []map[string]string{}})
		})
		c, err := gw.FindCustomerByEmail(context.Background(), "nobody@example.com")
		if err != nil || c != nil {
			t.Errorf("got %+v, %v; want nil, nil", c, err)
		}
	})
}

func TestAsaasGateway_APIErrors(t *testing.T) {
	gw, _ := newGatewayServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"errors": []map[string]string{{"code": "invalid_value", "description": "O valor informado é inválido."}},
		})
	})

	_, err := gw.CreateCustomer(context.Background(), "Ana", "ana@example.com", "")
	if err == nil {
		t.Fatal("CreateCustomer() error = nil, want API error")
	}
	if !strings.Contains(err.Error(), "invalid_value") {
		t.Errorf("error = %v, want the API error code surfaced", err)
	}
}

func TestAsaasGateway_GetCharge(t *testing.T) {
	gw, _ := newGatewayServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payments/pay_123" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "pay_123", "status": "CONFIRMED"})
	})

	status, err := gw.GetCharge(context.Background(), "pay_123")
	if err != nil {
		t.Fatalf("GetCharge() error = %v", err)
	}
	if string(status) != "CONFIRMED" {
		t.Errorf("status = %s, want CONFIRMED", status)
	}
}
