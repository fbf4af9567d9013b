package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the intake tables. The advisory lock serializes
// bootstrap DDL across api/worker startups.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082901)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS clients (
	client_code TEXT PRIMARY KEY,
	client_name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS client_aliases (
	client_code TEXT NOT NULL REFERENCES clients(client_code),
	alias TEXT NOT NULL,
	weight DOUBLE PRECISION NOT NULL DEFAULT 1,
	PRIMARY KEY (client_code, alias)
);

CREATE TABLE IF NOT EXISTS products (
	sku_code TEXT PRIMARY KEY,
	sku_name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS client_products (
	client_code TEXT NOT NULL REFERENCES clients(client_code),
	sku_code TEXT NOT NULL REFERENCES products(sku_code),
	weight DOUBLE PRECISION NOT NULL DEFAULT 1,
	PRIMARY KEY (client_code, sku_code)
);

CREATE TABLE IF NOT EXISTS intake_events (
	id BIGSERIAL PRIMARY KEY,
	request_id TEXT NOT NULL,
	status TEXT NOT NULL,
	client_code TEXT,
	client_name TEXT,
	item_count INT NOT NULL DEFAULT 0,
	occurred_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_client_aliases_alias ON client_aliases(alias);
CREATE INDEX IF NOT EXISTS idx_intake_events_status ON intake_events(status);
CREATE INDEX IF NOT EXISTS idx_intake_events_occurred_at ON intake_events(occurred_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}
