// internal/domain/models.go
package domain

import "time"

// Category groups products for ordering rules
type Category string

const (
	CategoryProtein Category = "protein"
	CategoryVeg     Category = "veg"
	CategoryFrozen  Category = "frozen"
)

// Product is a purchasable item; its variants are the countable forms of it.
type Product struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	NameEn      string    `json:"name_en" db:"name_en"`
	Category    Category  `json:"category" db:"category"`
	StorageType string    `json:"storage_type" db:"storage_type"`
	Supplier    string    `json:"supplier" db:"supplier"`
	CasePack    *float64  `json:"case_pack" db:"case_pack"`
	MinOrderQty *float64  `json:"min_order_qty" db:"min_order_qty"`
	PoolCode    *string   `json:"pool_code" db:"pool_code"`
	SortOrder   *int      `json:"sort_order" db:"sort_order"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	Variants    []Variant `json:"variants" db:"-"`
}

// Variant is one form/container combination of a product.
// ConversionToBase is nil when no conversion has been configured yet.
type Variant struct {
	ID               int64    `json:"id" db:"id"`
	ProductID        int64    `json:"product_id" db:"product_id"`
	DisplayName      string   `json:"display_name" db:"display_name"`
	Form             string   `json:"form" db:"form"`
	Container        string   `json:"container" db:"container"`
	ConversionToBase *float64 `json:"conversion_to_base" db:"conversion_to_base"`
	SortOrder        *int     `json:"sort_order" db:"sort_order"`
}

// CountRecord is a physical count of one variant on one date
type CountRecord struct {
	ID         int64     `json:"id" db:"id"`
	VariantID  int64     `json:"variant_id" db:"variant_id"`
	Date       time.Time `json:"date" db:"count_date"`
	CountedQty float64   `json:"counted_qty" db:"counted_qty"`
	PrevOnHand *float64  `json:"prev_on_hand,omitempty" db:"prev_on_hand"`
	Adjustment *float64  `json:"adjustment,omitempty" db:"adjustment"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// InventoryBalance is the current tracked on-hand quantity of a variant
type InventoryBalance struct {
	VariantID int64   `json:"variant_id" db:"variant_id"`
	OnHand    float64 `json:"on_hand" db:"on_hand"`
}

// Order is a persisted purchase order header
type Order struct {
	ID        int64       `json:"id" db:"id"`
	OrderDate string      `json:"order_date" db:"order_date"`
	OrderType OrderCycle  `json:"order_type" db:"order_type"`
	Status    OrderStatus `json:"status" db:"status"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	Lines     []OrderLine `json:"lines" db:"-"`
}

// OrderLine is one reviewed suggestion inside an order
type OrderLine struct {
	ID           int64   `json:"id" db:"id"`
	OrderID      int64   `json:"order_id" db:"order_id"`
	ProductID    int64   `json:"product_id" db:"product_id"`
	SuggestedQty float64 `json:"suggested_qty" db:"suggested_qty"`
	FinalQty     float64 `json:"final_qty" db:"final_qty"`
	Unit         string  `json:"unit" db:"unit"`
	Reason       *Reason `json:"reason,omitempty" db:"-"`
	Notes        string  `json:"notes" db:"notes"`
}

// ExportLine is an order line joined with the product fields the CSV export needs
type ExportLine struct {
	Supplier     string   `db:"supplier"`
	Category     Category `db:"category"`
	ProductName  string   `db:"product_name"`
	SuggestedQty float64  `db:"suggested_qty"`
	FinalQty     float64  `db:"final_qty"`
	Unit         string   `db:"unit"`
	Notes        string   `db:"notes"`
}

// DateLayout is the calendar date format used for counts and orders
const DateLayout = "2006-01-02"
