package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/m2go-inventory/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type catalogRepository struct {
	db *DB
}

func NewCatalogRepository(db *DB) *catalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListActiveProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, name, name_en, category, storage_type, supplier,
			case_pack, min_order_qty, pool_code, sort_order, is_active
		FROM products
		WHERE is_active
		ORDER BY sort_order NULLS LAST, id
	`

	var products []domain.Product
	if err := sqlx.SelectContext(ctx, r.db, &products, query); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if len(products) == 0 {
		return products, nil
	}

	ids := make([]int64, len(products))
	index := make(map[int64]int, len(products))
	for i, p := range products {
		ids[i] = p.ID
		index[p.ID] = i
		products[i].Variants = []domain.Variant{}
	}

	variantQuery := `
		SELECT id, product_id, display_name, form, container, conversion_to_base, sort_order
		FROM variants
		WHERE product_id = ANY($1)
		ORDER BY product_id, sort_order NULLS LAST, id
	`

	var variants []domain.Variant
	if err := sqlx.SelectContext(ctx, r.db, &variants, variantQuery, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to list variants: %w", err)
	}
	for _, v := range variants {
		i := index[v.ProductID]
		products[i].Variants = append(products[i].Variants, v)
	}

	return products, nil
}

func (r *catalogRepository) CountProducts(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM products`); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

func (r *catalogRepository) CreateProducts(ctx context.Context, products []domain.Product) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		productStmt, err := tx.PrepareNamedContext(ctx, `
			INSERT INTO products (
				name, name_en, category, storage_type, supplier,
				case_pack, min_order_qty, pool_code, sort_order, is_active
			) VALUES (
				:name, :name_en, :category, :storage_type, :supplier,
				:case_pack, :min_order_qty, :pool_code, :sort_order, :is_active
			)
			RETURNING id
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare product insert: %w", err)
		}
		defer productStmt.Close()

		variantStmt, err := tx.PrepareNamedContext(ctx, `
			INSERT INTO variants (
				product_id, display_name, form, container, conversion_to_base, sort_order
			) VALUES (
				:product_id, :display_name, :form, :container, :conversion_to_base, :sort_order
			)
			RETURNING id
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare variant insert: %w", err)
		}
		defer variantStmt.Close()

		for i := range products {
			p := &products[i]
			if err := productStmt.GetContext(ctx, &p.ID, p); err != nil {
				return fmt.Errorf("failed to insert product %q: %w", p.Name, err)
			}
			for j := range p.Variants {
				v := &p.Variants[j]
				v.ProductID = p.ID
				if err := variantStmt.GetContext(ctx, &v.ID, v); err != nil {
					return fmt.Errorf("failed to insert variant %q: %w", v.DisplayName, err)
				}
			}
		}
		return nil
	})
}
