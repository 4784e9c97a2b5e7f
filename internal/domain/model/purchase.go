package model

import "time"

// ContentPurchase unlocks PPV content for a payer. A nil MediaIndex
// means the whole content is unlocked; a set index only that item.
// (payer, content, index) is unique.
type ContentPurchase struct {
	ID         string // UUID
	PayerID    string
	ContentID  string
	MediaIndex *int
	PaymentID  string
	CreatedAt  time.Time
}

// PackPurchase unlocks a media pack. (payer, pack) is unique; each
// grant also bumps the pack's sales counter.
type PackPurchase struct {
	ID        string // UUID
	PayerID   string
	PackID    string
	PaymentID string
	CreatedAt time.Time
}
