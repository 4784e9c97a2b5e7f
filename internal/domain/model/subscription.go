package model

import (
	"time"

	"creator-payment-ledger/internal/domain"
)

type SubscriptionStatus string

const (
	SubscriptionStatusPending   SubscriptionStatus = "pending"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

// Subscription is one paid period between a payer and a creator.
// At most one active subscription may exist per (payer, creator) pair.
type Subscription struct {
	ID        string // UUID
	PayerID   string // UUID of subscriber
	CreatorID string // UUID of creator
	PricePaid int64  // payment amount at grant time, centavos
	StartAt   time.Time
	ExpiresAt time.Time
	Status    SubscriptionStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSubscription creates an active period starting now.
func NewSubscription(id, payerID, creatorID string, pricePaid int64, durationDays int) (*Subscription, error) {
	if id == "" || payerID == "" || creatorID == "" || durationDays <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Subscription{
		ID:        id,
		PayerID:   payerID,
		CreatorID: creatorID,
		PricePaid: pricePaid,
		StartAt:   now,
		ExpiresAt: now.Add(time.Duration(durationDays) * 24 * time.Hour),
		Status:    SubscriptionStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
