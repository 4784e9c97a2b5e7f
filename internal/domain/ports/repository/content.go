package repository

import (
	"context"

	"creator-payment-ledger/internal/domain/model"
)

// ContentRepository reads the product state checkout validates against.
// Writes happen outside this core.
type ContentRepository interface {
	FindContent(ctx context.Context, tx Tx, id string) (*model.Content, error)
	FindPack(ctx context.Context, tx Tx, id string) (*model.Pack, error)
	FindMessage(ctx context.Context, tx Tx, id string) (*model.Message, error)
}
