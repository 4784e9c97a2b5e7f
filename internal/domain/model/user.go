package model

import (
	"time"

	"creator-payment-ledger/internal/domain"
)

// User is the minimal payer/payee shape the ledger needs. The full
// profile lives outside this core.
type User struct {
	ID           string // UUID
	Name         string
	Email        string
	TaxID        string // CPF/CNPJ, stored encrypted at rest; forwarded to the gateway for compliance
	CustomerID   string // gateway customer id once linked; empty until first charge
	RegisteredAt time.Time
}

func NewUser(id, name, email string) (*User, error) {
	if id == "" || email == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &User{ID: id, Name: name, Email: email, RegisteredAt: time.Now()}, nil
}

// CreatorProfile carries the creator-side flags the ledger grants.
type CreatorProfile struct {
	UserID            string // UUID
	SubscriptionPrice int64  // centavos; base price for a 30-day period
	Pro               bool
	ProUntil          *time.Time
	UpdatedAt         time.Time
}
