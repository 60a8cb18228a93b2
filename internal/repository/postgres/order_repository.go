package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/andresuchdata/m2go-inventory/internal/domain"
	"github.com/jmoiron/sqlx"
)

type orderRepository struct {
	db *DB
}

func NewOrderRepository(db *DB) *orderRepository {
	return &orderRepository{db: db}
}

type orderLineRow struct {
	domain.OrderLine
	ReasonJSON []byte `db:"reason_json"`
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		header := `
			INSERT INTO orders (order_date, order_type, status, created_at)
			VALUES ($1, $2, $3, NOW())
			RETURNING id, created_at
		`
		if err := tx.QueryRowxContext(ctx, header, order.OrderDate, order.OrderType, order.Status).Scan(&order.ID, &order.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		stmt, err := tx.PreparexContext(ctx, `
			INSERT INTO order_lines (order_id, product_id, suggested_qty, final_qty, unit, reason_json, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare order line insert: %w", err)
		}
		defer stmt.Close()

		for i := range order.Lines {
			line := &order.Lines[i]
			line.OrderID = order.ID

			var reason []byte
			if line.Reason != nil {
				if reason, err = json.Marshal(line.Reason); err != nil {
					return fmt.Errorf("failed to encode reason for product %d: %w", line.ProductID, err)
				}
			}

			err := stmt.QueryRowxContext(ctx,
				order.ID,
				line.ProductID,
				line.SuggestedQty,
				line.FinalQty,
				line.Unit,
				reason,
				line.Notes,
			).Scan(&line.ID)
			if err != nil {
				return fmt.Errorf("failed to insert order line for product %d: %w", line.ProductID, err)
			}
		}
		return nil
	})
}

func (r *orderRepository) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	header := `
		SELECT id, to_char(order_date, 'YYYY-MM-DD') AS order_date, order_type, status, created_at
		FROM orders
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &order, header, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order %d: %w", id, err)
	}

	var rows []orderLineRow
	lines := `
		SELECT id, order_id, product_id, suggested_qty, final_qty, unit, reason_json, notes
		FROM order_lines
		WHERE order_id = $1
		ORDER BY id
	`
	if err := sqlx.SelectContext(ctx, r.db, &rows, lines, id); err != nil {
		return nil, fmt.Errorf("failed to get lines for order %d: %w", id, err)
	}

	order.Lines = make([]domain.OrderLine, 0, len(rows))
	for _, row := range rows {
		line := row.OrderLine
		if len(row.ReasonJSON) > 0 {
			var reason domain.Reason
			if err := json.Unmarshal(row.ReasonJSON, &reason); err != nil {
				return nil, fmt.Errorf("failed to decode reason for line %d: %w", row.ID, err)
			}
			line.Reason = &reason
		}
		order.Lines = append(order.Lines, line)
	}

	return &order, nil
}

func (r *orderRepository) ListExportLines(ctx context.Context, orderID int64) ([]domain.ExportLine, error) {
	query := `
		SELECT p.supplier, p.category, p.name AS product_name,
			l.suggested_qty, l.final_qty, l.unit, l.notes
		FROM order_lines l
		JOIN products p ON p.id = l.product_id
		WHERE l.order_id = $1
	`

	var lines []domain.ExportLine
	if err := sqlx.SelectContext(ctx, r.db, &lines, query, orderID); err != nil {
		return nil, fmt.Errorf("failed to list export lines for order %d: %w", orderID, err)
	}
	return lines, nil
}
