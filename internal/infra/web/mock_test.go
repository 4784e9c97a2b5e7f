//go:build !integration

package web

import (
	"context"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"creator-payment-ledger/internal/domain/model"
	"creator-payment-ledger/internal/usecase"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

func testPayment(kind model.PaymentKind, status model.PaymentStatus) *model.Payment {
	return &model.Payment{
		ID:           "01TESTPAYMENT0000000000000",
		PayerID:      "payer-1",
		Kind:         kind,
		Amount:       1000,
		TotalCharged: 1099,
		Status:       status,
		QRPayload:    "pix-payload",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// ---- use case mocks ----

type mockCheckoutUC struct {
	CreateSubscriptionPaymentFunc func(ctx context.Context, payerID, creatorID string, durationDays int, taxID string) (*model.Payment, error)
	CreatePPVPaymentFunc          func(ctx context.Context, payerID, contentID string, mediaIndex *int, taxID string) (*model.Payment, error)
	CreateTipPaymentFunc          func(ctx context.Context, payerID, creatorID string, amount int64, message string, contentID *string, taxID string) (*model.Payment, error)
	CreateProPlanPaymentFunc      func(ctx context.Context, creatorUserID, taxID string) (*model.Payment, error)
	CreatePackPaymentFunc         func(ctx context.Context, payerID, packID, taxID string) (*model.Payment, error)
	CreateMessagePPVPaymentFunc   func(ctx context.Context, payerID, messageID, taxID string) (*model.Payment, error)
}

var _ usecase.CheckoutUseCase = (*mockCheckoutUC)(nil)

func (m *mockCheckoutUC) CreateSubscriptionPayment(ctx context.Context, payerID, creatorID string, durationDays int, taxID string) (*model.Payment, error) {
	if m.CreateSubscriptionPaymentFunc != nil {
		return m.CreateSubscriptionPaymentFunc(ctx, payerID, creatorID, durationDays, taxID)
	}
	return testPayment(model.PaymentKindSubscription, model.PaymentStatusPending), nil
}

func (m *mockCheckoutUC) CreatePPVPayment(ctx context.Context, payerID, contentID string, mediaIndex *int, taxID string) (*model.Payment, error) {
	if m.CreatePPVPaymentFunc != nil {
		return m.CreatePPVPaymentFunc(ctx, payerID, contentID, mediaIndex, taxID)
	}
	return testPayment(model.PaymentKindPPV, model.PaymentStatusPending), nil
}

func (m *mockCheckoutUC) CreateTipPayment(ctx context.Context, payerID, creatorID string, amount int64, message string, contentID *string, taxID string) (*model.Payment, error) {
	if m.CreateTipPaymentFunc != nil {
		return m.CreateTipPaymentFunc(ctx, payerID, creatorID, amount, message, contentID, taxID)
	}
	return testPayment(model.PaymentKindTip, model.PaymentStatusPending), nil
}

func (m *mockCheckoutUC) CreateProPlanPayment(ctx context.Context, creatorUserID, taxID string) (*model.Payment, error) {
	if m.CreateProPlanPaymentFunc != nil {
		return m.CreateProPlanPaymentFunc(ctx, creatorUserID, taxID)
	}
	return testPayment(model.PaymentKindProPlan, model.PaymentStatusPending), nil
}

func (m *mockCheckoutUC) CreatePackPayment(ctx context.Context, payerID, packID, taxID string) (*model.Payment, error) {
	if m.CreatePackPaymentFunc != nil {
		return m.CreatePackPaymentFunc(ctx, payerID, packID, taxID)
	}
	return testPayment(model.PaymentKindPack, model.PaymentStatusPending), nil
}

func (m *mockCheckoutUC) CreateMessagePPVPayment(ctx context.Context, payerID, messageID, taxID string) (*model.Payment, error) {
	if m.CreateMessagePPVPaymentFunc != nil {
		return m.CreateMessagePPVPaymentFunc(ctx, payerID, messageID, taxID)
	}
	return testPayment(model.PaymentKindPPV, model.PaymentStatusPending), nil
}

type mockReconcileUC struct {
	HandleGatewayEventFunc func(ctx context.Context, event, paymentID string) (*model.Payment, error)
	PollFunc               func(ctx context.Context, paymentID, callerID string) (*model.Payment, error)
	RequestRefundFunc      func(ctx context.Context, paymentID string) (*model.Payment, error)

	Events []string
}

var _ usecase.ReconcileUseCase = (*mockReconcileUC)(nil)

func (m *mockReconcileUC) HandleGatewayEvent(ctx context.Context, event, paymentID string) (*model.Payment, error) {
	m.Events = append(m.Events, event+":"+paymentID)
	if m.HandleGatewayEventFunc != nil {
		return m.HandleGatewayEventFunc(ctx, event, paymentID)
	}
	return testPayment(model.PaymentKindTip, model.PaymentStatusConfirmed), nil
}

func (m *mockReconcileUC) Confirm(ctx context.Context, paymentID string) (*model.Payment, error) {
	return testPayment(model.PaymentKindTip, model.PaymentStatusConfirmed), nil
}

func (m *mockReconcileUC) Fail(ctx context.Context, paymentID string) (*model.Payment, error) {
	return testPayment(model.PaymentKindTip, model.PaymentStatusFailed), nil
}

func (m *mockReconcileUC) Expire(ctx context.Context, paymentID string) (*model.Payment, error) {
	return testPayment(model.PaymentKindTip, model.PaymentStatusExpired), nil
}

func (m *mockReconcileUC) Refund(ctx context.Context, paymentID string) (*model.Payment, error) {
	return testPayment(model.PaymentKindTip, model.PaymentStatusRefunded), nil
}

func (m *mockReconcileUC) RequestRefund(ctx context.Context, paymentID string) (*model.Payment, error) {
	if m.RequestRefundFunc != nil {
		return m.RequestRefundFunc(ctx, paymentID)
	}
	return testPayment(model.PaymentKindTip, model.PaymentStatusRefunded), nil
}

func (m *mockReconcileUC) PollCharge(ctx context.Context, p *model.Payment) (*model.Payment, error) {
	return p, nil
}

func (m *mockReconcileUC) Poll(ctx context.Context, paymentID, callerID string) (*model.Payment, error) {
	if m.PollFunc != nil {
		return m.PollFunc(ctx, paymentID, callerID)
	}
	return testPayment(model.PaymentKindTip, model.PaymentStatusPending), nil
}

type mockMediaUC struct {
	IssueFunc   func(userID string, kind model.ResourceKind, resourceID, storageKey string, mediaIndex *int) (string, error)
	ResolveFunc func(ctx context.Context, token, callerID string) (string, error)
}

var _ usecase.MediaTokenUseCase = (*mockMediaUC)(nil)

func (m *mockMediaUC) Issue(userID string, kind model.ResourceKind, resourceID, storageKey string, mediaIndex *int) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(userID, kind, resourceID, storageKey, mediaIndex)
	}
	return "media-token", nil
}

func (m *mockMediaUC) Resolve(ctx context.Context, token, callerID string) (string, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, token, callerID)
	}
	return "https://cdn.test/signed", nil
}

type mockEarningsUC struct {
	SummaryFunc func(ctx context.Context, creatorID string) (*usecase.EarningsSummary, error)
}

var _ usecase.EarningsUseCase = (*mockEarningsUC)(nil)

func (m *mockEarningsUC) Summary(ctx context.Context, creatorID string) (*usecase.EarningsSummary, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx, creatorID)
	}
	return &usecase.EarningsSummary{CreatorID: creatorID, Available: 5000}, nil
}

// signSession mints a session token the way the platform's auth
// service does: HS256, subject = user id.
func signSession(secret, userID string) string {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	s, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	return s
}
