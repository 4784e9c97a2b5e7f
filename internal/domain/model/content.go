package model

import "time"

type ContentVisibility string

const (
	ContentVisibilityPublic      ContentVisibility = "public"
	ContentVisibilitySubscribers ContentVisibility = "subscribers"
	ContentVisibilityPPV         ContentVisibility = "ppv"
)

// Content is a creator post. Only the fields the ledger validates
// against are modeled here.
type Content struct {
	ID         string // UUID
	CreatorID  string
	Visibility ContentVisibility
	Price      int64  // whole-content PPV price, centavos; 0 when not individually priced
	ItemPrices []int64 // per-media-item PPV prices, indexed by media position; nil when uniform
	Deleted    bool
	CreatedAt  time.Time
}

// PriceForIndex returns the price for a per-item purchase, or the
// whole-content price when idx is nil.
func (c *Content) PriceForIndex(idx *int) (int64, bool) {
	if idx == nil {
		return c.Price, c.Price > 0
	}
	if *idx < 0 || *idx >= len(c.ItemPrices) {
		return 0, false
	}
	p := c.ItemPrices[*idx]
	return p, p > 0
}

// Pack is a sellable bundle of media.
type Pack struct {
	ID        string // UUID
	CreatorID string
	Price     int64
	Active    bool
	Sales     int // incremented on each pack grant
	CreatedAt time.Time
}

// Message models a direct message that may carry PPV media.
type Message struct {
	ID        string // UUID
	SenderID  string // creator
	UserID    string // recipient payer
	PPV       bool
	Price     int64
	Paid      bool // unlock flag, settable exactly once true
	ContentID string // media reference attached to the message
	CreatedAt time.Time
}
