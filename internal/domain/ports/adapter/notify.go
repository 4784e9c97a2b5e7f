package adapter

import "context"

// Mailer delivers entitlement-confirmation email. template names the
// message family (locale key prefix); data carries display fields.
// Failures are logged by callers, never propagated into payment state.
type Mailer interface {
	SendPaymentConfirmed(ctx context.Context, to, template string, data map[string]string) error
}

// TipEvent is broadcast to the creator's live surface when a tip
// confirms.
type TipEvent struct {
	CreatorID string
	Amount    int64
	PayerName string
	Message   string
	ContentID string // optional context
}

type TipBroadcaster interface {
	BroadcastTip(ctx context.Context, ev TipEvent) error
}

// CacheInvalidator signals feed/earnings views to refresh after a
// confirmation or refund.
type CacheInvalidator interface {
	InvalidateEarnings(ctx context.Context, creatorID string) error
	InvalidateFeed(ctx context.Context, payerID string) error
}
