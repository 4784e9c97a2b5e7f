package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"creator-payment-ledger/internal/domain/ports/adapter"
)

var _ adapter.TipBroadcaster = (*TipPublisher)(nil)

// TipPublisher pushes confirmed tips onto the creator's live channel.
// The realtime surface subscribes to tips:{creator_id}; delivery is
// fire-and-forget, a missed event only costs an on-screen alert.
type TipPublisher struct {
	client *Client
}

func NewTipPublisher(client *Client) *TipPublisher {
	return &TipPublisher{client: client}
}

func (p *TipPublisher) BroadcastTip(ctx context.Context, ev adapter.TipEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, tipChannel(ev.CreatorID), payload)
}

func tipChannel(creatorID string) string { return fmt.Sprintf("tips:%s", creatorID) }
