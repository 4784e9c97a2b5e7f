package redis

import (
	"context"
	"encoding/json"
	"time"

	"creator-payment-ledger/internal/usecase"
)

var _ usecase.EarningsCache = (*EarningsCache)(nil)

// EarningsCache keeps computed earnings summaries under the same key
// the invalidator deletes on confirmation and refund. Failures degrade
// to a recompute, never an error.
type EarningsCache struct {
	client *Client
	ttl    time.Duration
}

func NewEarningsCache(client *Client, ttl time.Duration) *EarningsCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &EarningsCache{client: client, ttl: ttl}
}

func (c *EarningsCache) Get(ctx context.Context, creatorID string) (*usecase.EarningsSummary, bool) {
	raw, err := c.client.Get(ctx, earningsKey(creatorID))
	if err != nil {
		return nil, false
	}
	var s usecase.EarningsSummary
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, false
	}
	return &s, true
}

func (c *EarningsCache) Set(ctx context.Context, creatorID string, s *usecase.EarningsSummary) {
	raw, err := json.Marshal(s)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, earningsKey(creatorID), raw, c.ttl)
}
