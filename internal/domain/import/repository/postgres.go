// Package repository holds the sinks that persist normalized statement
// records. Every write is an upsert keyed by (format, id), so importing the
// same file twice leaves the stored set unchanged.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/model"
)

// DB is the subset of *pgxpool.Pool the sink needs.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Postgres upserts records into the statement tables created by the
// pkg/db migrations.
type Postgres struct {
	db DB
}

// NewPostgres creates a Postgres sink.
func NewPostgres(db DB) *Postgres {
	return &Postgres{db: db}
}

const upsertCashQuery = `
	INSERT INTO cash_transactions (
		source_format, id, occurred_at, name, type, currency, amount,
		category_id, reference, metadata, diagnostic
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (source_format, id) DO UPDATE SET
		occurred_at = EXCLUDED.occurred_at,
		name = EXCLUDED.name,
		type = EXCLUDED.type,
		currency = EXCLUDED.currency,
		amount = EXCLUDED.amount,
		category_id = EXCLUDED.category_id,
		reference = EXCLUDED.reference,
		metadata = EXCLUDED.metadata,
		diagnostic = EXCLUDED.diagnostic,
		updated_at = NOW()
	RETURNING (xmax = 0) AS inserted`

const upsertInvestmentQuery = `
	INSERT INTO investment_transactions (
		source_format, id, occurred_at, name, type, asset, quantity, currency,
		unit_price, fees, total, metadata, diagnostic
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (source_format, id) DO UPDATE SET
		occurred_at = EXCLUDED.occurred_at,
		name = EXCLUDED.name,
		type = EXCLUDED.type,
		asset = EXCLUDED.asset,
		quantity = EXCLUDED.quantity,
		currency = EXCLUDED.currency,
		unit_price = EXCLUDED.unit_price,
		fees = EXCLUDED.fees,
		total = EXCLUDED.total,
		metadata = EXCLUDED.metadata,
		diagnostic = EXCLUDED.diagnostic,
		updated_at = NOW()
	RETURNING (xmax = 0) AS inserted`

// UpsertCash writes a cash batch in one transaction.
func (r *Postgres) UpsertCash(ctx context.Context, format model.Format, txs []model.CashTransaction) (model.UpsertStats, error) {
	return r.upsert(ctx, len(txs), func(ctx context.Context, tx pgx.Tx, i int) (bool, error) {
		t := txs[i]
		var inserted bool
		err := tx.QueryRow(ctx, upsertCashQuery,
			string(format),
			t.ID,
			timestamp(t.Timestamp),
			t.Name,
			string(t.Type),
			t.Currency,
			numeric(t.Amount),
			t.CategoryID,
			text(t.Reference),
			metadata(t.Metadata),
			text(t.Diagnostic),
		).Scan(&inserted)
		if err != nil {
			return false, fmt.Errorf("failed to upsert cash transaction %s: %w", t.ID, err)
		}
		return inserted, nil
	})
}

// UpsertInvestments writes an investment batch in one transaction.
func (r *Postgres) UpsertInvestments(ctx context.Context, format model.Format, txs []model.InvestmentTransaction) (model.UpsertStats, error) {
	return r.upsert(ctx, len(txs), func(ctx context.Context, tx pgx.Tx, i int) (bool, error) {
		t := txs[i]
		var inserted bool
		err := tx.QueryRow(ctx, upsertInvestmentQuery,
			string(format),
			t.ID,
			timestamp(t.Timestamp),
			t.Name,
			string(t.Type),
			t.Asset,
			numeric(t.Quantity),
			t.Currency,
			numeric(t.UnitPrice),
			numeric(t.Fees),
			numeric(t.Total),
			metadata(t.Metadata),
			text(t.Diagnostic),
		).Scan(&inserted)
		if err != nil {
			return false, fmt.Errorf("failed to upsert investment transaction %s: %w", t.ID, err)
		}
		return inserted, nil
	})
}

func (r *Postgres) upsert(ctx context.Context, n int, row func(context.Context, pgx.Tx, int) (bool, error)) (model.UpsertStats, error) {
	var stats model.UpsertStats
	if n == 0 {
		return stats, nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for i := 0; i < n; i++ {
		inserted, err := row(ctx, tx, i)
		if err != nil {
			return model.UpsertStats{}, err
		}
		if inserted {
			stats.Inserted++
		} else {
			stats.Updated++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return model.UpsertStats{}, fmt.Errorf("failed to commit upsert: %w", err)
	}
	return stats, nil
}

// numeric converts a decimal string; empty or malformed values (rows carrying
// a diagnostic) are stored as NULL.
func numeric(s string) pgtype.Numeric {
	var n pgtype.Numeric
	if s == "" || n.Scan(s) != nil {
		return pgtype.Numeric{}
	}
	return n
}

func text(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func timestamp(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: !t.IsZero()}
}

func metadata(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
