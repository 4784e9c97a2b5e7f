package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"creator-payment-ledger/internal/domain"
	"creator-payment-ledger/internal/domain/model"
	"creator-payment-ledger/internal/domain/ports/repository"
)

var _ repository.PurchaseRepository = (*purchaseRepo)(nil)

// purchaseRepo keeps the audit trail append-only: a purchase row is
// never deleted. Entitlement checks join the backing payment and count
// only rows whose payment is still confirmed, and a repurchase after a
// refund re-points the existing row at the new payment.
type purchaseRepo struct{ pool *pgxpool.Pool }

func NewPurchaseRepo(pool *pgxpool.Pool) *purchaseRepo {
	return &purchaseRepo{pool: pool}
}

func (r *purchaseRepo) SaveContentPurchaseIfNone(ctx context.Context, tx repository.Tx, p *model.ContentPurchase) (bool, error) {
	// Revive a refunded row first; the unique index covers
	// (payer, content, media index) so the later insert cannot race it
	// into a duplicate.
	const revive = `
UPDATE content_purchases cp
   SET payment_id=$4, created_at=NOW()
  FROM payments pay
 WHERE cp.payer_id=$1 AND cp.content_id=$2 AND COALESCE(cp.media_index,-1)=COALESCE($3,-1)
   AND pay.id=cp.payment_id AND pay.status='refunded';`

	cmd, err := execSQL(ctx, r.pool, tx, revive, p.PayerID, p.ContentID, p.MediaIndex, p.PaymentID)
	if err != nil {
		return false, wrapExec(err)
	}
	if cmd.RowsAffected() >= 1 {
		return true, nil
	}

	const insert = `
INSERT INTO content_purchases (id, payer_id, content_id, media_index, payment_id, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (payer_id, content_id, (COALESCE(media_index,-1))) DO NOTHING;`

	cmd, err = execSQL(ctx, r.pool, tx, insert, p.ID, p.PayerID, p.ContentID, p.MediaIndex, p.PaymentID, p.CreatedAt)
	if err != nil {
		return false, wrapExec(err)
	}
	return cmd.RowsAffected() >= 1, nil
}

func (r *purchaseRepo) HasContentPurchase(ctx context.Context, tx repository.Tx, payerID, contentID string, mediaIndex *int) (bool, error) {
	// A row whose payment was refunded no longer entitles; a whole-content
	// purchase (NULL media_index) also covers any per-item request.
	const q = `
SELECT EXISTS (
  SELECT 1
    FROM content_purchases cp
    JOIN payments pay ON pay.id = cp.payment_id
   WHERE cp.payer_id=$1 AND cp.content_id=$2
     AND (cp.media_index IS NULL OR COALESCE(cp.media_index,-1)=COALESCE($3,-1))
     AND pay.status='confirmed');`

	row, err := pickRow(ctx, r.pool, tx, q, payerID, contentID, mediaIndex)
	if err != nil {
		return false, err
	}
	var ok bool
	if err := row.Scan(&ok); err != nil {
		return false, domain.ErrReadDatabaseRow
	}
	return ok, nil
}

func (r *purchaseRepo) SavePackPurchaseIfNone(ctx context.Context, tx repository.Tx, p *model.PackPurchase) (bool, error) {
	const revive = `
UPDATE pack_purchases pp
   SET payment_id=$3, created_at=NOW()
  FROM payments pay
 WHERE pp.payer_id=$1 AND pp.pack_id=$2
   AND pay.id=pp.payment_id AND pay.status='refunded';`

	cmd, err := execSQL(ctx, r.pool, tx, revive, p.PayerID, p.PackID, p.PaymentID)
	if err != nil {
		return false, wrapExec(err)
	}
	granted := cmd.RowsAffected() >= 1
	if !granted {
		const insert = `
INSERT INTO pack_purchases (id, payer_id, pack_id, payment_id, created_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (payer_id, pack_id) DO NOTHING;`

		cmd, err = execSQL(ctx, r.pool, tx, insert, p.ID, p.PayerID, p.PackID, p.PaymentID, p.CreatedAt)
		if err != nil {
			return false, wrapExec(err)
		}
		granted = cmd.RowsAffected() >= 1
	}
	if granted {
		const bump = `UPDATE packs SET sales = sales + 1 WHERE id=$1;`
		if _, err := execSQL(ctx, r.pool, tx, bump, p.PackID); err != nil {
			return false, wrapExec(err)
		}
	}
	return granted, nil
}

func (r *purchaseRepo) HasPackPurchase(ctx context.Context, tx repository.Tx, payerID, packID string) (bool, error) {
	const q = `
SELECT EXISTS (
  SELECT 1
    FROM pack_purchases pp
    JOIN payments pay ON pay.id = pp.payment_id
   WHERE pp.payer_id=$1 AND pp.pack_id=$2 AND pay.status='confirmed');`

	row, err := pickRow(ctx, r.pool, tx, q, payerID, packID)
	if err != nil {
		return false, err
	}
	var ok bool
	if err := row.Scan(&ok); err != nil {
		return false, domain.ErrReadDatabaseRow
	}
	return ok, nil
}

func (r *purchaseRepo) MarkMessagePaid(ctx context.Context, tx repository.Tx, messageID string) (bool, error) {
	const q = `UPDATE messages SET paid=TRUE WHERE id=$1 AND paid=FALSE;`
	cmd, err := execSQL(ctx, r.pool, tx, q, messageID)
	if err != nil {
		return false, wrapExec(err)
	}
	return cmd.RowsAffected() >= 1, nil
}

func wrapExec(err error) error {
	if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
		return err
	}
	return domain.ErrOperationFailed
}
