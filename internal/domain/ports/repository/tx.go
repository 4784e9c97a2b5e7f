package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is an opaque transaction handle. The concrete type is
// infra-defined (pgx.Tx for Postgres); repositories MUST gracefully
// accept nil (non-transactional path).
type Tx interface{}

// NoTX marks the explicit non-transactional path.
var NoTX Tx = nil

// TransactionManager executes fn inside a database transaction,
// passing the handle through so repository calls made with it share
// one atomic unit. Keeps use-case interfaces free of driver types.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
