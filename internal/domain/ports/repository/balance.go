package repository

import (
	"context"

	"creator-payment-ledger/internal/domain/model"
)

// BalanceRepository exposes the ledger's only balance mutations. Both
// are single atomic arithmetic updates at the storage layer so
// concurrent confirmations for the same payee stay correct without
// in-process locking.
type BalanceRepository interface {
	// Credit adds amount to available and total earnings, creating the
	// row on first credit.
	Credit(ctx context.Context, tx Tx, creatorID string, amount int64) error
	// Debit subtracts amount from available and total earnings, flooring
	// both at zero.
	Debit(ctx context.Context, tx Tx, creatorID string, amount int64) error
	Find(ctx context.Context, tx Tx, creatorID string) (*model.Balance, error)
}
