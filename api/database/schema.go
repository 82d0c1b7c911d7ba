package database

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS efi_plan (
		plan_id         BIGINT PRIMARY KEY,
		name            TEXT NOT NULL,
		interval_months INTEGER NOT NULL,
		repeats         INTEGER,
		environment     TEXT NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS efi_subscription (
		subscription_id BIGINT PRIMARY KEY,
		plan_id         BIGINT NOT NULL,
		value_cents     BIGINT NOT NULL,
		payment_method  TEXT NOT NULL DEFAULT '',
		environment     TEXT NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS efi_pix_charge (
		txid            TEXT PRIMARY KEY,
		subscription_id BIGINT NOT NULL,
		location_id     BIGINT NOT NULL,
		value           TEXT NOT NULL,
		environment     TEXT NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS efi_pix_charge_subscription_idx ON efi_pix_charge (subscription_id)`,
}

// EnsureSchema creates the ledger tables when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
