package repository

import (
	"context"
	"time"

	"creator-payment-ledger/internal/domain/model"
)

type UserRepository interface {
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	// LinkCustomer persists the gateway customer id for the user.
	LinkCustomer(ctx context.Context, tx Tx, userID, customerID string) error
	// SetTaxID stores the payer's tax id (encrypted at rest).
	SetTaxID(ctx context.Context, tx Tx, userID, taxID string) error
}

type CreatorRepository interface {
	FindProfile(ctx context.Context, tx Tx, userID string) (*model.CreatorProfile, error)
	// SetPro flips the pro flag with a validity window.
	SetPro(ctx context.Context, tx Tx, userID string, until time.Time) error
	ClearLapsedPro(ctx context.Context, tx Tx, now time.Time) (int, error)
}
