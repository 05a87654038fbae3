package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xapay/xapay-go"
)

// Postgres is a Postgres-backed store persisting engine state in a single
// key/value table. Apply upserts the whole batch inside one transaction.
type Postgres struct {
	db *pgxpool.Pool
}

// NewPostgres wraps an existing connection pool.
func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the state table when it does not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	const ddl = `CREATE TABLE IF NOT EXISTS engine_state (
        key   BYTEA PRIMARY KEY,
        value BYTEA NOT NULL
    )`
	if _, err := p.db.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Get implements xapay.Store.
func (p *Postgres) Get(ctx context.Context, key []byte) ([]byte, error) {
	const query = `SELECT value FROM engine_state WHERE key = $1`
	var value []byte
	if err := p.db.QueryRow(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xapay.ErrNotFound
		}
		return nil, fmt.Errorf("postgres get: %w", err)
	}
	return value, nil
}

// Has implements xapay.Store.
func (p *Postgres) Has(ctx context.Context, key []byte) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM engine_state WHERE key = $1)`
	var exists bool
	if err := p.db.QueryRow(ctx, query, key).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres exists: %w", err)
	}
	return exists, nil
}

// Apply implements xapay.Store.
func (p *Postgres) Apply(ctx context.Context, writes []xapay.Write) error {
	if len(writes) == 0 {
		return nil
	}

	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("postgres apply: %w", err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	const upsert = `INSERT INTO engine_state (key, value) VALUES ($1, $2)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
	for _, w := range writes {
		if _, err := tx.Exec(ctx, upsert, w.Key, w.Value); err != nil {
			return fmt.Errorf("postgres apply: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres apply: %w", err)
	}
	return nil
}
