package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"walkwatch/internal/types"
)

// KVRepository is the PostgreSQL implementation of KV, backed by the
// kv_entries table:
//
//	CREATE TABLE kv_entries (
//	    key        TEXT PRIMARY KEY,
//	    value      TEXT NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type KVRepository struct {
	db DBTX
}

// NewKVRepository creates a KVRepository backed by the given database
// connection (pool or transaction).
func NewKVRepository(db DBTX) *KVRepository {
	return &KVRepository{db: db}
}

// Get reads the value stored under key. A missing key is (_, false, nil),
// not an error.
func (r *KVRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow(ctx,
		`SELECT value FROM kv_entries WHERE key = $1`,
		key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, types.NewAppError(types.ErrCodeStateStore, "failed to read kv entry", err)
	}
	return value, true, nil
}

// Set writes value under key, overwriting any prior value (last-write-wins).
func (r *KVRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO kv_entries (key, value, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeStateStore, "failed to write kv entry", err)
	}
	return nil
}

// Compile-time assertion that KVRepository satisfies KV.
var _ KV = (*KVRepository)(nil)
