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

var _ repository.ContentRepository = (*contentRepo)(nil)

// contentRepo is read-only: checkout and token resolution validate
// against product state, they never write it.
type contentRepo struct{ pool *pgxpool.Pool }

func NewContentRepo(pool *pgxpool.Pool) *contentRepo {
	return &contentRepo{pool: pool}
}

func (r *contentRepo) FindContent(ctx context.Context, tx repository.Tx, id string) (*model.Content, error) {
	const q = `SELECT id, creator_id, visibility, price, item_prices, deleted, created_at FROM contents WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}

	c := &model.Content{}
	var visibility string
	if err := row.Scan(&c.ID, &c.CreatorID, &visibility, &c.Price, &c.ItemPrices, &c.Deleted, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	c.Visibility = model.ContentVisibility(visibility)
	return c, nil
}

func (r *contentRepo) FindPack(ctx context.Context, tx repository.Tx, id string) (*model.Pack, error) {
	const q = `SELECT id, creator_id, price, active, sales, created_at FROM packs WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}

	p := &model.Pack{}
	if err := row.Scan(&p.ID, &p.CreatorID, &p.Price, &p.Active, &p.Sales, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return p, nil
}

func (r *contentRepo) FindMessage(ctx context.Context, tx repository.Tx, id string) (*model.Message, error) {
	const q = `SELECT id, sender_id, user_id, ppv, price, paid, content_id, created_at FROM messages WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}

	m := &model.Message{}
	var contentID *string
	if err := row.Scan(&m.ID, &m.SenderID, &m.UserID, &m.PPV, &m.Price, &m.Paid, &contentID, &m.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if contentID != nil {
		m.ContentID = *contentID
	}
	return m, nil
}
