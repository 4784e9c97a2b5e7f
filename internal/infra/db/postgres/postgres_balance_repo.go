package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"creator-payment-ledger/internal/domain"
	"creator-payment-ledger/internal/domain/model"
	"creator-payment-ledger/internal/domain/ports/repository"
)

var _ repository.BalanceRepository = (*balanceRepo)(nil)

// balanceRepo mutates balances only through single-statement arithmetic
// updates. Concurrent confirmations for the same payee serialize on the
// row, no application-level locking.
type balanceRepo struct{ pool *pgxpool.Pool }

func NewBalanceRepo(pool *pgxpool.Pool) *balanceRepo {
	return &balanceRepo{pool: pool}
}

func (r *balanceRepo) Credit(ctx context.Context, tx repository.Tx, creatorID string, amount int64) error {
	if amount <= 0 {
		return domain.ErrInvalidArgument
	}
	const q = `
INSERT INTO balances (creator_id, available, pending, total_earnings, updated_at)
VALUES ($1, $2, 0, $2, NOW())
ON CONFLICT (creator_id) DO UPDATE SET
  available = balances.available + $2,
  total_earnings = balances.total_earnings + $2,
  updated_at = NOW();`

	if _, err := execSQL(ctx, r.pool, tx, q, creatorID, amount); err != nil {
		return wrapExec(err)
	}
	return nil
}

func (r *balanceRepo) Debit(ctx context.Context, tx repository.Tx, creatorID string, amount int64) error {
	if amount <= 0 {
		return domain.ErrInvalidArgument
	}
	// Floors at zero: the refund debit never drives a balance negative
	// even when the credit was already withdrawn.
	const q = `
UPDATE balances SET
  available = GREATEST(0, available - $2),
  total_earnings = GREATEST(0, total_earnings - $2),
  updated_at = NOW()
 WHERE creator_id=$1;`

	if _, err := execSQL(ctx, r.pool, tx, q, creatorID, amount); err != nil {
		return wrapExec(err)
	}
	return nil
}

func (r *balanceRepo) Find(ctx context.Context, tx repository.Tx, creatorID string) (*model.Balance, error) {
	const q = `SELECT creator_id, available, pending, total_earnings, updated_at FROM balances WHERE creator_id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, creatorID)
	if err != nil {
		return nil, err
	}

	b := &model.Balance{}
	if err := row.Scan(&b.CreatorID, &b.Available, &b.Pending, &b.TotalEarnings, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return b, nil
}
