// Package db owns the Postgres connection and the transactional unit of
// work every wallet mutation runs in. Transactions execute at
// SERIALIZABLE; serialization failures and deadlocks are retried with
// backoff, so callers above this layer never see a 40001.
package db

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const maxTxAttempts = 5

type TxRunner interface {
	WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error
}

// PgTxRunner binds WithTx to a live connection pool so services can hold
// a TxRunner without touching *sqlx.DB directly.
type PgTxRunner struct {
	db *sqlx.DB
}

func NewTxRunner(db *sqlx.DB) PgTxRunner {
	return PgTxRunner{db: db}
}

func (r PgTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	return WithTx(ctx, r.db, fn)
}

func Connect(databaseURL string) (*sqlx.DB, error) {
	conn, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	conn.SetMaxOpenConns(30)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxIdleTime(5 * time.Minute)
	conn.SetConnMaxLifetime(30 * time.Minute)
	return conn, nil
}

// WithTx runs fn inside a SERIALIZABLE transaction, committing on nil and
// rolling back otherwise. Serialization conflicts (40001) and deadlocks
// (40P01) restart the whole closure; fn must therefore be safe to run
// more than once.
func WithTx(ctx context.Context, conn *sqlx.DB, fn func(*sqlx.Tx) error) error {
	for attempt := 1; ; attempt++ {
		err := runTx(ctx, conn, fn)
		if err == nil {
			return nil
		}
		if !isSerializationFailure(err) || attempt >= maxTxAttempts {
			return err
		}
		sleepBeforeRetry(attempt)
	}
}

func runTx(ctx context.Context, conn *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := conn.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}

// Quadratic backoff with a little jitter so colliding transactions do
// not restart in lockstep.
func sleepBeforeRetry(attempt int) {
	backoff := time.Duration(attempt*attempt) * 20 * time.Millisecond
	jitter := time.Duration(rand.Int63n(int64(10 * time.Millisecond)))
	time.Sleep(backoff + jitter)
}
