// Package dbx holds what the fanbox repositories need from database/sql:
// DBTX, satisfied by both *sql.DB and *sql.Tx, and WithTx, which backs
// RepositoryManager.InTx for the Postgres store.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql the user and message repositories
// call. Repository factories accept it so one code path serves a plain
// pool and an open transaction alike.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside one transaction: commit when fn returns nil,
// rollback on error or panic (the panic is re-raised). A failed BeginTx is
// returned unwrapped so callers can classify it as a store failure.
//
// Sending a message checks the recipient and inserts in one tx:
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    if _, err := users.NewPostgresRepository(tx).GetUserByID(ctx, to); err != nil {
//	        return err
//	    }
//	    _, err := messages.NewPostgresRepository(tx).Create(ctx, msg)
//	    return err
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
