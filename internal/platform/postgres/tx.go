// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/tagraph/internal/platform/dberr"
)

// TxBeginner is satisfied by [*pgxpool.Pool] and [*pgx.Conn].
type TxBeginner interface {
	BeginTx(ctx context.Context, options pgx.TxOptions) (pgx.Tx, error)
}

// Querier is the statement surface shared by [*pgxpool.Pool] and [pgx.Tx], so
// a store can run the same queries inside or outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, batch *pgx.Batch) pgx.BatchResults
}

// SerializableTx is the isolation used for every structural tag graph mutation.
var SerializableTx = pgx.TxOptions{IsoLevel: pgx.Serializable}

/*
InTx runs fn inside a transaction opened with options and commits it when fn
returns nil.

Any error from fn rolls the transaction back. Serialization failures raised at
statement or commit time surface as CONFLICT_ABORT through [dberr.Wrap]; the
caller decides whether to retry.

Parameters:
  - context: context.Context
  - db: TxBeginner (pool or single connection)
  - options: pgx.TxOptions (isolation level, access mode)
  - fn: func(pgx.Tx) error (the unit of work)

Returns:
  - error: fn's error or a classified begin/commit failure
*/
func InTx(context context.Context, db TxBeginner, options pgx.TxOptions, fn func(pgx.Tx) error) error {
	transaction, err := db.BeginTx(context, options)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres: failed to begin transaction: %w", err), "Transaction")
	}

	// Rollback after a successful Commit is a no-op.
	defer func() { _ = transaction.Rollback(context) }()

	if err := fn(transaction); err != nil {
		return dberr.Wrap(err, "Transaction")
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(fmt.Errorf("postgres: failed to commit transaction: %w", err), "Transaction")
	}

	return nil
}
