package repository

import (
	"context"
	"time"

	"github.com/andresuchdata/m2go-inventory/internal/domain"
)

type CatalogRepository interface {
	// ListActiveProducts returns active products with their variants, both in sort order.
	ListActiveProducts(ctx context.Context) ([]domain.Product, error)
	CountProducts(ctx context.Context) (int, error)
	// CreateProducts inserts products with their variants and fills in the generated IDs.
	CreateProducts(ctx context.Context, products []domain.Product) error
}

type CountRepository interface {
	ListCountsSince(ctx context.Context, since time.Time) ([]domain.CountRecord, error)
	// RecordCount stores a count and moves the variant's balance to the counted quantity
	// in one transaction. PrevOnHand and Adjustment are filled in from the old balance.
	RecordCount(ctx context.Context, rec *domain.CountRecord) error
}

type BalanceRepository interface {
	ListBalances(ctx context.Context) ([]domain.InventoryBalance, error)
}

type SettingsRepository interface {
	GetSettings(ctx context.Context) (map[string]string, error)
	SaveSettings(ctx context.Context, values map[string]string) error
	// EnsureDefaults inserts any key that is not stored yet, leaving existing values alone.
	EnsureDefaults(ctx context.Context, defaults map[string]string) error
}

type OrderRepository interface {
	// CreateOrder saves the header and lines in one transaction and fills in the IDs.
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	ListExportLines(ctx context.Context, orderID int64) ([]domain.ExportLine, error)
}
