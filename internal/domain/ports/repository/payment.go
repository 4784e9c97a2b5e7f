package repository

import (
	"context"
	"time"

	"creator-payment-ledger/internal/domain/model"
)

type PaymentRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Payment) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Payment, error)
	FindByChargeID(ctx context.Context, tx Tx, chargeID string) (*model.Payment, error)
	// SetCharge persists the gateway charge reference and payer-facing
	// instructions after a successful charge call.
	SetCharge(ctx context.Context, tx Tx, id, chargeID, qrPayload, qrImage string, expiresAt *time.Time) error
	// UpdateStatusIf atomically moves the payment to status only when its
	// current status is one of from. Reports whether a row changed; the
	// guard is the whole idempotency story, so callers must branch on it.
	UpdateStatusIf(ctx context.Context, tx Tx, id string, status model.PaymentStatus, from []model.PaymentStatus, paidAt *time.Time) (bool, error)
	ListPendingOlderThan(ctx context.Context, tx Tx, olderThan time.Time, limit int) ([]*model.Payment, error)
	SumConfirmedByPayee(ctx context.Context, tx Tx, payeeID, period string) (int64, error)
}
