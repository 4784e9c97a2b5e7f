package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"creator-payment-ledger/internal/domain"
	"creator-payment-ledger/internal/domain/model"
	"creator-payment-ledger/internal/domain/ports/repository"
	"creator-payment-ledger/internal/infra/security"
)

var (
	_ repository.UserRepository    = (*userRepo)(nil)
	_ repository.CreatorRepository = (*creatorRepo)(nil)
)

// userRepo stores tax ids encrypted; plaintext never reaches the table.
type userRepo struct {
	pool   *pgxpool.Pool
	cipher *security.Cipher
}

func NewUserRepo(pool *pgxpool.Pool, cipher *security.Cipher) *userRepo {
	return &userRepo{pool: pool, cipher: cipher}
}

func (r *userRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	const q = `SELECT id, name, email, tax_id_enc, customer_id, registered_at FROM users WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}

	u := &model.User{}
	var taxIDEnc, customerID *string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &taxIDEnc, &customerID, &u.RegisteredAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if customerID != nil {
		u.CustomerID = *customerID
	}
	if taxIDEnc != nil && *taxIDEnc != "" {
		plain, err := r.cipher.Decrypt(*taxIDEnc)
		if err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		u.TaxID = plain
	}
	return u, nil
}

func (r *userRepo) LinkCustomer(ctx context.Context, tx repository.Tx, userID, customerID string) error {
	const q = `UPDATE users SET customer_id=$2 WHERE id=$1;`
	if _, err := execSQL(ctx, r.pool, tx, q, userID, customerID); err != nil {
		return wrapExec(err)
	}
	return nil
}

func (r *userRepo) SetTaxID(ctx context.Context, tx repository.Tx, userID, taxID string) error {
	enc, err := r.cipher.Encrypt(taxID)
	if err != nil {
		return domain.ErrOperationFailed
	}
	const q = `UPDATE users SET tax_id_enc=$2 WHERE id=$1;`
	if _, err := execSQL(ctx, r.pool, tx, q, userID, enc); err != nil {
		return wrapExec(err)
	}
	return nil
}

type creatorRepo struct{ pool *pgxpool.Pool }

func NewCreatorRepo(pool *pgxpool.Pool) *creatorRepo {
	return &creatorRepo{pool: pool}
}

func (r *creatorRepo) FindProfile(ctx context.Context, tx repository.Tx, userID string) (*model.CreatorProfile, error) {
	const q = `SELECT user_id, subscription_price, pro, pro_until, updated_at FROM creator_profiles WHERE user_id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, err
	}

	p := &model.CreatorProfile{}
	if err := row.Scan(&p.UserID, &p.SubscriptionPrice, &p.Pro, &p.ProUntil, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return p, nil
}

func (r *creatorRepo) SetPro(ctx context.Context, tx repository.Tx, userID string, until time.Time) error {
	const q = `
INSERT INTO creator_profiles (user_id, subscription_price, pro, pro_until, updated_at)
VALUES ($1, 0, TRUE, $2, NOW())
ON CONFLICT (user_id) DO UPDATE SET
  pro=TRUE, pro_until=$2, updated_at=NOW();`

	if _, err := execSQL(ctx, r.pool, tx, q, userID, until); err != nil {
		return wrapExec(err)
	}
	return nil
}

func (r *creatorRepo) ClearLapsedPro(ctx context.Context, tx repository.Tx, now time.Time) (int, error) {
	const q = `UPDATE creator_profiles SET pro=FALSE, updated_at=NOW() WHERE pro=TRUE AND pro_until IS NOT NULL AND pro_until <= $1;`
	cmd, err := execSQL(ctx, r.pool, tx, q, now)
	if err != nil {
		return 0, wrapExec(err)
	}
	return int(cmd.RowsAffected()), nil
}
