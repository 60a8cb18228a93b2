package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/m2go-inventory/internal/domain"
	"github.com/jmoiron/sqlx"
)

type countRepository struct {
	db *DB
}

func NewCountRepository(db *DB) *countRepository {
	return &countRepository{db: db}
}

func (r *countRepository) ListCountsSince(ctx context.Context, since time.Time) ([]domain.CountRecord, error) {
	query := `
		SELECT id, variant_id, count_date, counted_qty, prev_on_hand, adjustment, created_at
		FROM daily_counts
		WHERE count_date >= $1
		ORDER BY variant_id, count_date
	`

	var counts []domain.CountRecord
	if err := sqlx.SelectContext(ctx, r.db, &counts, query, since.Format(domain.DateLayout)); err != nil {
		return nil, fmt.Errorf("failed to list counts since %s: %w", since.Format(domain.DateLayout), err)
	}
	return counts, nil
}

func (r *countRepository) RecordCount(ctx context.Context, rec *domain.CountRecord) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		var exists bool
		if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM variants WHERE id = $1)`, rec.VariantID); err != nil {
			return fmt.Errorf("failed to check variant: %w", err)
		}
		if !exists {
			return fmt.Errorf("variant %d: %w", rec.VariantID, domain.ErrNotFound)
		}

		var prev float64
		err := tx.GetContext(ctx, &prev, `SELECT on_hand FROM inventory_balances WHERE variant_id = $1 FOR UPDATE`, rec.VariantID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to read balance: %w", err)
		}
		adjustment := rec.CountedQty - prev
		rec.PrevOnHand = &prev
		rec.Adjustment = &adjustment

		insert := `
			INSERT INTO daily_counts (variant_id, count_date, counted_qty, prev_on_hand, adjustment, created_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
			ON CONFLICT (variant_id, count_date)
			DO UPDATE SET
				counted_qty = EXCLUDED.counted_qty,
				prev_on_hand = EXCLUDED.prev_on_hand,
				adjustment = EXCLUDED.adjustment,
				created_at = NOW()
			RETURNING id, created_at
		`
		row := tx.QueryRowxContext(ctx, insert,
			rec.VariantID,
			rec.Date.Format(domain.DateLayout),
			rec.CountedQty,
			prev,
			adjustment,
		)
		if err := row.Scan(&rec.ID, &rec.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert count: %w", err)
		}

		upsert := `
			INSERT INTO inventory_balances (variant_id, on_hand)
			VALUES ($1, $2)
			ON CONFLICT (variant_id) DO UPDATE SET on_hand = EXCLUDED.on_hand
		`
		if _, err := tx.ExecContext(ctx, upsert, rec.VariantID, rec.CountedQty); err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}
		return nil
	})
}

type balanceRepository struct {
	db *DB
}

func NewBalanceRepository(db *DB) *balanceRepository {
	return &balanceRepository{db: db}
}

func (r *balanceRepository) ListBalances(ctx context.Context) ([]domain.InventoryBalance, error) {
	var balances []domain.InventoryBalance
	if err := sqlx.SelectContext(ctx, r.db, &balances, `SELECT variant_id, on_hand FROM inventory_balances`); err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	return balances, nil
}
