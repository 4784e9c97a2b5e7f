package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"creator-payment-ledger/internal/domain"
	"creator-payment-ledger/internal/domain/model"
	"creator-payment-ledger/internal/domain/ports/repository"
)

var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

const subscriptionColumns = `id, payer_id, creator_id, price_paid, start_at, expires_at, status, created_at, updated_at`

// SaveIfNone inserts the subscription unless the pair already holds an
// active one. The partial unique index on (payer_id, creator_id) WHERE
// status='active' makes concurrent grants safe; the duplicate insert
// reports false instead of failing.
func (r *subscriptionRepo) SaveIfNone(ctx context.Context, tx repository.Tx, s *model.Subscription) (bool, error) {
	const q = `
INSERT INTO subscriptions (id, payer_id, creator_id, price_paid, start_at, expires_at, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9);`

	_, err := execSQL(ctx, r.pool, tx, q, s.ID, s.PayerID, s.CreatorID, s.PricePaid, s.StartAt, s.ExpiresAt, s.Status, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return false, err
		default:
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return false, nil
			}
			return false, domain.ErrOperationFailed
		}
	}
	return true, nil
}

func (r *subscriptionRepo) FindActiveByPair(ctx context.Context, tx repository.Tx, payerID, creatorID string) (*model.Subscription, error) {
	const q = `
SELECT ` + subscriptionColumns + `
  FROM subscriptions
 WHERE payer_id=$1 AND creator_id=$2 AND status='active'
 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, payerID, creatorID)
	if err != nil {
		return nil, err
	}
	return scanSubscription(row)
}

func (r *subscriptionRepo) ExtendActive(ctx context.Context, tx repository.Tx, payerID, creatorID string, by time.Duration) (bool, error) {
	const q = `
UPDATE subscriptions
   SET expires_at = expires_at + ($3::bigint * INTERVAL '1 second'),
       updated_at = NOW()
 WHERE payer_id=$1 AND creator_id=$2 AND status='active';`

	cmd, err := execSQL(ctx, r.pool, tx, q, payerID, creatorID, int64(by.Seconds()))
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() >= 1, nil
}

func (r *subscriptionRepo) CancelActive(ctx context.Context, tx repository.Tx, payerID, creatorID string) (bool, error) {
	const q = `
UPDATE subscriptions
   SET status='cancelled', updated_at=NOW()
 WHERE payer_id=$1 AND creator_id=$2 AND status='active';`

	cmd, err := execSQL(ctx, r.pool, tx, q, payerID, creatorID)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() >= 1, nil
}

func (r *subscriptionRepo) ExpireDue(ctx context.Context, tx repository.Tx, now time.Time, limit int) (int, error) {
	if limit <= 0 {
		limit = 500
	}
	const q = `
UPDATE subscriptions
   SET status='expired', updated_at=NOW()
 WHERE id IN (
       SELECT id FROM subscriptions
        WHERE status='active' AND expires_at <= $1
        ORDER BY expires_at ASC
        LIMIT $2);`

	cmd, err := execSQL(ctx, r.pool, tx, q, now, limit)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return 0, err
		}
		return 0, domain.ErrOperationFailed
	}
	return int(cmd.RowsAffected()), nil
}

func scanSubscription(row pgx.Row) (*model.Subscription, error) {
	s := &model.Subscription{}
	var status string
	if err := row.Scan(&s.ID, &s.PayerID, &s.CreatorID, &s.PricePaid, &s.StartAt, &s.ExpiresAt, &status, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	s.Status = model.SubscriptionStatus(status)
	return s, nil
}
