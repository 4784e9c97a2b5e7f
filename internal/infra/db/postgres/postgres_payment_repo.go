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
)

var _ repository.PaymentRepository = (*paymentRepo)(nil)

type paymentRepo struct{ pool *pgxpool.Pool }

func NewPaymentRepo(pool *pgxpool.Pool) *paymentRepo {
	return &paymentRepo{pool: pool}
}

const paymentColumns = `id, payer_id, payee_id, kind, amount, gateway_fee, platform_fee, payee_share, total_charged, metadata, status, charge_id, qr_payload, qr_image, charge_expires_at, paid_at, created_at, updated_at`

func (r *paymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	meta, err := p.Metadata.MarshalJSONB()
	if err != nil {
		return domain.ErrInvalidArgument
	}
	const q = `
INSERT INTO payments (
  id, payer_id, payee_id, kind, amount, gateway_fee, platform_fee, payee_share, total_charged, metadata, status, charge_id, qr_payload, qr_image, charge_expires_at, paid_at, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18
) ON CONFLICT (id) DO UPDATE SET
  payee_id=$3, kind=$4, amount=$5, gateway_fee=$6, platform_fee=$7, payee_share=$8, total_charged=$9, metadata=$10, status=$11, charge_id=$12, qr_payload=$13, qr_image=$14, charge_expires_at=$15, paid_at=$16, updated_at=$18;`

	_, err = execSQL(ctx, r.pool, tx, q, p.ID, p.PayerID, p.PayeeID, p.Kind, p.Amount, p.GatewayFee, p.PlatformFee, p.PayeeShare, p.TotalCharged, meta, p.Status, nullIfEmpty(p.ChargeID), p.QRPayload, p.QRImage, p.ChargeExpiresAt, p.PaidAt, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *paymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Payment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanPayment(row)
}

func (r *paymentRepo) FindByChargeID(ctx context.Context, tx repository.Tx, chargeID string) (*model.Payment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE charge_id=$1 LIMIT 1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, chargeID)
	if err != nil {
		return nil, err
	}
	return scanPayment(row)
}

func (r *paymentRepo) SetCharge(ctx context.Context, tx repository.Tx, id, chargeID, qrPayload, qrImage string, expiresAt *time.Time) error {
	const q = `UPDATE payments SET charge_id=$2, qr_payload=$3, qr_image=$4, charge_expires_at=$5, updated_at=NOW() WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, id, chargeID, qrPayload, qrImage, expiresAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

// UpdateStatusIf atomically moves the payment to status only when its
// current status is one of from. The guard runs inside the UPDATE, so
// a duplicate gateway notification loses the race and reports false.
func (r *paymentRepo) UpdateStatusIf(
	ctx context.Context, tx repository.Tx, id string, status model.PaymentStatus, from []model.PaymentStatus, paidAt *time.Time,
) (bool, error) {
	fromList := make([]string, len(from))
	for i, s := range from {
		fromList[i] = string(s)
	}
	const q = `
UPDATE payments
   SET status = $2,
       paid_at = COALESCE($3, paid_at),
       updated_at = NOW()
 WHERE id = $1
   AND status = ANY($4);`

	cmd, err := execSQL(ctx, r.pool, tx, q, id, string(status), paidAt, fromList)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() >= 1, nil
}

func (r *paymentRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.Payment, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE status='pending' AND created_at < $1 ORDER BY created_at ASC LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, olderThan, limit)
	if err != nil {
		switch err {
		case pgx.ErrNoRows:
			return nil, domain.ErrNotFound
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *paymentRepo) SumConfirmedByPayee(ctx context.Context, tx repository.Tx, payeeID, period string) (int64, error) {
	const q = `SELECT COALESCE(SUM(payee_share),0) FROM payments WHERE payee_id=$1 AND status='confirmed' AND paid_at >= DATE_TRUNC($2, NOW());`
	row, err := pickRow(ctx, r.pool, tx, q, payeeID, period)
	if err != nil {
		return 0, err
	}

	var sum int64
	if err := row.Scan(&sum); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return sum, nil
}

func scanPayment(row pgx.Row) (*model.Payment, error) {
	p := &model.Payment{}
	var (
		meta     []byte
		status   string
		kind     string
		chargeID *string
	)
	if err := row.Scan(&p.ID, &p.PayerID, &p.PayeeID, &kind, &p.Amount, &p.GatewayFee, &p.PlatformFee, &p.PayeeShare, &p.TotalCharged, &meta, &status, &chargeID, &p.QRPayload, &p.QRImage, &p.ChargeExpiresAt, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	p.Kind = model.PaymentKind(kind)
	p.Status = model.PaymentStatus(status)
	if chargeID != nil {
		p.ChargeID = *chargeID
	}
	m, err := model.UnmarshalMetadata(meta)
	if err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	p.Metadata = m
	return p, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
