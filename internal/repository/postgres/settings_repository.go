package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"
)

type settingsRepository struct {
	db *DB
}

func NewSettingsRepository(db *DB) *settingsRepository {
	return &settingsRepository{db: db}
}

type settingRow struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

func (r *settingsRepository) GetSettings(ctx context.Context) (map[string]string, error) {
	var rows []settingRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, `SELECT key, value FROM settings`); err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	return values, nil
}

func (r *settingsRepository) SaveSettings(ctx context.Context, values map[string]string) error {
	return r.upsert(ctx, values, `
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`)
}

func (r *settingsRepository) EnsureDefaults(ctx context.Context, defaults map[string]string) error {
	return r.upsert(ctx, defaults, `
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO NOTHING
	`)
}

func (r *settingsRepository) upsert(ctx context.Context, values map[string]string, query string) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		stmt, err := tx.PreparexContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare settings statement: %w", err)
		}
		defer stmt.Close()

		for _, k := range keys {
			if _, err := stmt.ExecContext(ctx, k, values[k]); err != nil {
				return fmt.Errorf("failed to save setting %s: %w", k, err)
			}
		}
		return nil
	})
}
