package adapter

import (
	"context"
	"time"
)

// Customer is the gateway-side payer record.
type Customer struct {
	ID    string
	Name  string
	Email string
	TaxID string
}

// Charge is the result of creating a PIX charge: the payer-facing
// instructions plus the gateway's reference.
type Charge struct {
	ID        string
	QRPayload string // copy-and-paste PIX payload
	QRImage   string // base64-encoded QR image
	ExpiresAt *time.Time
}

type ChargeStatus string

const (
	ChargeStatusPending   ChargeStatus = "PENDING"
	ChargeStatusReceived  ChargeStatus = "RECEIVED"
	ChargeStatusConfirmed ChargeStatus = "CONFIRMED"
	ChargeStatusOverdue   ChargeStatus = "OVERDUE"
	ChargeStatusDeleted   ChargeStatus = "DELETED"
	ChargeStatusRefunded  ChargeStatus = "REFUNDED"
)

// PaymentGateway is the hex port for the external payment processor.
type PaymentGateway interface {
	Name() string

	CreateCustomer(ctx context.Context, name, email, taxID string) (string, error)
	FindCustomerByEmail(ctx context.Context, email string) (*Customer, error)
	UpdateCustomer(ctx context.Context, id string, fields map[string]string) error

	// CreateCharge creates a charge for value centavos. externalReference
	// carries our Payment id; it is the join key the webhook sends back.
	CreateCharge(ctx context.Context, customerID string, value int64, description, externalReference string) (*Charge, error)
	GetCharge(ctx context.Context, chargeID string) (ChargeStatus, error)
	Refund(ctx context.Context, chargeID string) error
}
