// Package store provides the persistent key-value state the reminder core
// depends on: the last-reminder date stamp and the per-caller throttle
// timestamps. The interface is deliberately tiny; PostgreSQL backs it in
// production via a single upsert-friendly table.
package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// KV is the key-value contract consumed by the rate limiter and throttle.
//
// Get returns (value, found, error). Callers decide how to handle errors;
// the store never hides them behind a permissive default, keeping fail-open
// decisions visible at the call site.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// DBTX is the minimal interface shared by *pgxpool.Pool and pgx.Tx.
// The repository accepts this so the same code works inside or outside a
// transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
