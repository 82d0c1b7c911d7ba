package efidb

import (
	"context"
	"database/sql"
	"fmt"
)

// Ledger records what the proxy created on the gateway. Rows are
// append-only; replays of the same gateway id are ignored.
type Ledger struct {
	db  *sql.DB
	env string
}

func NewLedger(db *sql.DB, environment string) *Ledger {
	return &Ledger{db: db, env: environment}
}

type PlanRecord struct {
	PlanID   int64
	Name     string
	Interval int
	Repeats  *int
}

type SubscriptionRecord struct {
	SubscriptionID int64
	PlanID         int64
	ValueCents     int64
	PaymentMethod  string
}

type PixChargeRecord struct {
	TxID           string
	SubscriptionID int64
	LocationID     int64
	Value          string
}

func (l *Ledger) RecordPlan(ctx context.Context, p PlanRecord) error {
	var repeats sql.NullInt64
	if p.Repeats != nil {
		repeats = sql.NullInt64{Int64: int64(*p.Repeats), Valid: true}
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO efi_plan (plan_id, name, interval_months, repeats, environment)
		 VALUES ($1, $2, $3, $4, $5) ON CONFLICT (plan_id) DO NOTHING`,
		p.PlanID, p.Name, p.Interval, repeats, l.env)
	if err != nil {
		return fmt.Errorf("failed to record plan %d: %w", p.PlanID, err)
	}
	return nil
}

func (l *Ledger) RecordSubscription(ctx context.Context, s SubscriptionRecord) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO efi_subscription (subscription_id, plan_id, value_cents, payment_method, environment)
		 VALUES ($1, $2, $3, $4, $5) ON CONFLICT (subscription_id) DO NOTHING`,
		s.SubscriptionID, s.PlanID, s.ValueCents, s.PaymentMethod, l.env)
	if err != nil {
		return fmt.Errorf("failed to record subscription %d: %w", s.SubscriptionID, err)
	}
	return nil
}

func (l *Ledger) RecordPixCharge(ctx context.Context, c PixChargeRecord) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO efi_pix_charge (txid, subscription_id, location_id, value, environment)
		 VALUES ($1, $2, $3, $4, $5) ON CONFLICT (txid) DO NOTHING`,
		c.TxID, c.SubscriptionID, c.LocationID, c.Value, l.env)
	if err != nil {
		return fmt.Errorf("failed to record pix charge %s: %w", c.TxID, err)
	}
	return nil
}
