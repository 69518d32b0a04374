package dbpkg

import (
	"context"
	"database/sql"
	"fmt"
)

// TxBeginner is implemented by *sql.DB.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// ExecTx executes fn within a database transaction started with opts.
//
// When db cannot begin transactions, for example when it already is a *sql.Tx,
// fn runs directly on db and the caller owns commit and rollback.
func ExecTx(ctx context.Context, db SQLInterface, opts *sql.TxOptions, fn func(SQLInterface) error) error {
	conn, ok := db.(TxBeginner)
	if !ok {
		return fn(db)
	}

	tx, err := conn.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %v, rb err: %v", err, rbErr)
		}

		return err
	}

	return tx.Commit()
}

// ReadSnapshot are the options of a read-only repeatable-read transaction.
var ReadSnapshot = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
