package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"moviehub/proj/internal/storage"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ErrConflictCode = "23505"

// DBTX is satisfied by both the pool and an open transaction, so queries can be
// written once and run inside or outside of WithTx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Pool interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

type PostgresDB struct {
	Conn           Pool
	log            *slog.Logger
	acquireTimeout time.Duration
}

func New(ctx context.Context, log *slog.Logger, dsn string, maxConns int, maxConnIdleTime, acquireTimeout time.Duration) (*PostgresDB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = int32(maxConns)
	cfg.MaxConnIdleTime = maxConnIdleTime
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return NewWithPool(log, pool, acquireTimeout), nil
}

func NewWithPool(log *slog.Logger, pool Pool, acquireTimeout time.Duration) *PostgresDB {
	return &PostgresDB{Conn: pool, log: log, acquireTimeout: acquireTimeout}
}

func (db *PostgresDB) Ping(ctx context.Context) error {
	return db.Conn.Ping(ctx)
}

func (db *PostgresDB) Close() {
	db.Conn.Close()
}

// WithTx runs fn inside a transaction on a single pooled connection. The
// transaction is committed when fn returns nil and rolled back otherwise; in
// both cases the connection goes back to the pool. Commit and rollback ignore
// cancellation of ctx so the transaction is never left open.
func (db *PostgresDB) WithTx(ctx context.Context, fn func(tx DBTX) error) (err error) {
	const op = "postgres.PostgresDB.WithTx"
	log := db.log.With("op", op)

	beginCtx := ctx
	if db.acquireTimeout > 0 {
		var cancel context.CancelFunc
		beginCtx, cancel = context.WithTimeout(ctx, db.acquireTimeout)
		defer cancel()
	}
	tx, err := db.Conn.Begin(beginCtx)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", storage.ErrTxFailed, err)
	}
	finishCtx := context.WithoutCancel(ctx)

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(finishCtx); rbErr != nil {
				log.Error("rollback after panic failed", "errMsg", rbErr.Error())
			}
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(finishCtx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.Error("rollback failed", "errMsg", rbErr.Error())
			err = errors.Join(err, rbErr)
		}
		return fmt.Errorf("%w: %w", storage.ErrTxFailed, err)
	}
	if err = tx.Commit(finishCtx); err != nil {
		return fmt.Errorf("%w: commit: %w", storage.ErrTxFailed, err)
	}
	return nil
}

// IsConflict reports whether err is a unique constraint violation.
func IsConflict(err error) bool {
	var pgxErr *pgconn.PgError
	return errors.As(err, &pgxErr) && pgxErr.Code == ErrConflictCode
}
