package model

import (
	"time"

	"github.com/oklog/ulid/v2"

	"creator-payment-ledger/internal/domain"
)

type PaymentKind string

const (
	PaymentKindSubscription PaymentKind = "subscription"
	PaymentKindPPV          PaymentKind = "ppv"
	PaymentKindTip          PaymentKind = "tip"
	PaymentKindProPlan      PaymentKind = "pro_plan"
	PaymentKindPack         PaymentKind = "pack"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"   // charge requested; awaiting gateway notification
	PaymentStatusConfirmed PaymentStatus = "confirmed" // gateway confirmed; entitlement granted
	PaymentStatusFailed    PaymentStatus = "failed"    // gateway deleted/cancelled the charge
	PaymentStatusRefunded  PaymentStatus = "refunded"  // confirmed payment reversed at the gateway
	PaymentStatusExpired   PaymentStatus = "expired"   // charge lapsed unpaid (gateway overdue)
)

// FeeBreakdown is the deterministic split of a payment's base amount.
// All values are integer minor-currency units (centavos).
// Invariant: Amount = GatewayFee + PlatformFee + PayeeShare.
type FeeBreakdown struct {
	Amount       int64 // payee's product price before fees
	GatewayFee   int64 // passed through to the payer on top of Amount
	PlatformFee  int64 // deducted from the payee's share
	PayeeShare   int64 // Amount - GatewayFee - PlatformFee; zero when there is no payee
	TotalCharged int64 // Amount + GatewayFee; what the payer actually pays
}

// Payment is the central money record. Created pending by checkout,
// mutated only by reconciliation, never deleted.
type Payment struct {
	ID        string  // ULID, time-ordered
	PayerID   string  // UUID of the paying user
	PayeeID   *string // UUID of the receiving creator; nil for platform-only kinds (pro_plan)
	Kind      PaymentKind
	Amount    int64
	GatewayFee   int64
	PlatformFee  int64
	PayeeShare   int64
	TotalCharged int64
	Metadata     PaymentMetadata
	Status       PaymentStatus
	ChargeID     string // gateway charge id, set after the charge call succeeds
	QRPayload    string // PIX copy-and-paste payload shown to the payer
	QRImage      string // base64 QR image from the gateway
	ChargeExpiresAt *time.Time
	PaidAt          *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewPaymentID returns a ULID string. Ledger ids sort by creation time,
// which keeps audit queries and pagination cheap.
func NewPaymentID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.DefaultEntropy()).String()
}

// NewPendingPayment assembles a pending payment from a computed fee split.
func NewPendingPayment(payerID string, payeeID *string, kind PaymentKind, fees FeeBreakdown, meta PaymentMetadata) (*Payment, error) {
	if payerID == "" || kind == "" {
		return nil, domain.ErrInvalidArgument
	}
	if fees.Amount != fees.GatewayFee+fees.PlatformFee+fees.PayeeShare || fees.PayeeShare < 0 {
		return nil, domain.ErrInvalidArgument
	}
	if payeeID == nil && fees.PayeeShare != 0 {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Payment{
		ID:           NewPaymentID(),
		PayerID:      payerID,
		PayeeID:      payeeID,
		Kind:         kind,
		Amount:       fees.Amount,
		GatewayFee:   fees.GatewayFee,
		PlatformFee:  fees.PlatformFee,
		PayeeShare:   fees.PayeeShare,
		TotalCharged: fees.TotalCharged,
		Metadata:     meta,
		Status:       PaymentStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
