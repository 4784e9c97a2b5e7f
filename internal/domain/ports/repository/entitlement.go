package repository

import (
	"context"
	"time"

	"creator-payment-ledger/internal/domain/model"
)

type SubscriptionRepository interface {
	// SaveIfNone inserts the subscription unless the (payer, creator)
	// pair already has an active one; reports whether a row was written.
	SaveIfNone(ctx context.Context, tx Tx, s *model.Subscription) (bool, error)
	FindActiveByPair(ctx context.Context, tx Tx, payerID, creatorID string) (*model.Subscription, error)
	// ExtendActive pushes the active period's expiry forward; used when a
	// renewal confirms while the previous period still runs.
	ExtendActive(ctx context.Context, tx Tx, payerID, creatorID string, by time.Duration) (bool, error)
	// CancelActive marks the pair's active subscription cancelled; used
	// only when the refund policy revokes subscriptions.
	CancelActive(ctx context.Context, tx Tx, payerID, creatorID string) (bool, error)
	ExpireDue(ctx context.Context, tx Tx, now time.Time, limit int) (int, error)
}

// PurchaseRepository persists one-time unlocks. Purchase rows are
// never deleted; "has" checks join the backing payment and count only
// rows whose payment is still confirmed, so a refund invalidates
// access without erasing the audit trail, and a later repurchase
// re-points the row at the new payment.
type PurchaseRepository interface {
	// SaveContentPurchaseIfNone inserts unless a (payer, content, index)
	// row backed by a non-refunded payment exists; a refunded row is
	// re-pointed instead. Reports whether a row was written or revived.
	SaveContentPurchaseIfNone(ctx context.Context, tx Tx, p *model.ContentPurchase) (bool, error)
	HasContentPurchase(ctx context.Context, tx Tx, payerID, contentID string, mediaIndex *int) (bool, error)
	// SavePackPurchaseIfNone also increments the pack sales counter when
	// a row is written.
	SavePackPurchaseIfNone(ctx context.Context, tx Tx, p *model.PackPurchase) (bool, error)
	HasPackPurchase(ctx context.Context, tx Tx, payerID, packID string) (bool, error)
	// MarkMessagePaid flips the message unlock flag; no-op when already
	// paid. Reports whether the flag changed.
	MarkMessagePaid(ctx context.Context, tx Tx, messageID string) (bool, error)
}
