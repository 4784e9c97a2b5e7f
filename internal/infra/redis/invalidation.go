package redis

import (
	"context"
	"fmt"

	"creator-payment-ledger/internal/domain/ports/adapter"
)

var _ adapter.CacheInvalidator = (*Invalidator)(nil)

// Invalidator drops the cached earnings and feed views a confirmation
// or refund makes stale. The views are rebuilt lazily by their readers.
type Invalidator struct {
	client *Client
}

func NewInvalidator(client *Client) *Invalidator {
	return &Invalidator{client: client}
}

func (i *Invalidator) InvalidateEarnings(ctx context.Context, creatorID string) error {
	return i.client.Del(ctx, earningsKey(creatorID))
}

func (i *Invalidator) InvalidateFeed(ctx context.Context, payerID string) error {
	return i.client.Del(ctx, feedKey(payerID))
}

func earningsKey(creatorID string) string { return fmt.Sprintf("earnings:%s", creatorID) }

func feedKey(payerID string) string { return fmt.Sprintf("feed:%s", payerID) }
