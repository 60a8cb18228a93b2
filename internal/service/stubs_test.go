package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/andresuchdata/m2go-inventory/internal/domain"
	"github.com/andresuchdata/m2go-inventory/internal/storage"
)

// ── In-memory repositories ───────────────────────────────────────────────────

type stubCatalogRepo struct {
	products []domain.Product
	err      error
	created  []domain.Product
}

func (r *stubCatalogRepo) ListActiveProducts(_ context.Context) ([]domain.Product, error) {
	return r.products, r.err
}

func (r *stubCatalogRepo) CountProducts(_ context.Context) (int, error) {
	return len(r.products), r.err
}

func (r *stubCatalogRepo) CreateProducts(_ context.Context, products []domain.Product) error {
	for i := range products {
		products[i].ID = int64(len(r.products) + 1)
		r.products = append(r.products, products[i])
	}
	r.created = append(r.created, products...)
	return nil
}

type stubCountRepo struct {
	mu       sync.Mutex
	counts   []domain.CountRecord
	balances map[int64]float64
	since    time.Time
	err      error
}

func newStubCountRepo() *stubCountRepo {
	return &stubCountRepo{balances: make(map[int64]float64)}
}

func (r *stubCountRepo) ListCountsSince(_ context.Context, since time.Time) ([]domain.CountRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.since = since
	return r.counts, r.err
}

func (r *stubCountRepo) RecordCount(_ context.Context, rec *domain.CountRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	prev := r.balances[rec.VariantID]
	adj := rec.CountedQty - prev
	rec.PrevOnHand, rec.Adjustment = &prev, &adj
	rec.ID = int64(len(r.counts) + 1)
	r.counts = append(r.counts, *rec)
	r.balances[rec.VariantID] = rec.CountedQty
	return nil
}

func (r *stubCountRepo) ListBalances(_ context.Context) ([]domain.InventoryBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.InventoryBalance, 0, len(r.balances))
	for id, qty := range r.balances {
		out = append(out, domain.InventoryBalance{VariantID: id, OnHand: qty})
	}
	return out, nil
}

type failingBalanceRepo struct{ err error }

func (r failingBalanceRepo) ListBalances(_ context.Context) ([]domain.InventoryBalance, error) {
	return nil, r.err
}

type stubSettingsRepo struct {
	values map[string]string
	err    error
}

func (r *stubSettingsRepo) GetSettings(_ context.Context) (map[string]string, error) {
	return r.values, r.err
}

func (r *stubSettingsRepo) SaveSettings(_ context.Context, values map[string]string) error {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	for k, v := range values {
		r.values[k] = v
	}
	return nil
}

func (r *stubSettingsRepo) EnsureDefaults(_ context.Context, defaults map[string]string) error {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	for k, v := range defaults {
		if _, ok := r.values[k]; !ok {
			r.values[k] = v
		}
	}
	return nil
}

type stubOrderRepo struct {
	orders map[int64]*domain.Order
	lines  map[int64][]domain.ExportLine
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[int64]*domain.Order), lines: make(map[int64][]domain.ExportLine)}
}

func (r *stubOrderRepo) CreateOrder(_ context.Context, order *domain.Order) error {
	order.ID = int64(len(r.orders) + 1)
	for i := range order.Lines {
		order.Lines[i].ID = int64(i + 1)
		order.Lines[i].OrderID = order.ID
	}
	r.orders[order.ID] = order
	return nil
}

func (r *stubOrderRepo) GetOrder(_ context.Context, id int64) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
	}
	return o, nil
}

func (r *stubOrderRepo) ListExportLines(_ context.Context, id int64) ([]domain.ExportLine, error) {
	return r.lines[id], nil
}

// ── Cache and storage ────────────────────────────────────────────────────────

type memoryCache struct {
	entries     map[string][]domain.Suggestion
	invalidated int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]domain.Suggestion)}
}

func cacheKey(cycle domain.OrderCycle, day time.Time) string {
	return string(cycle) + day.Format(domain.DateLayout)
}

func (c *memoryCache) Get(_ context.Context, cycle domain.OrderCycle, day time.Time) ([]domain.Suggestion, bool, error) {
	s, ok := c.entries[cacheKey(cycle, day)]
	return s, ok, nil
}

func (c *memoryCache) Set(_ context.Context, cycle domain.OrderCycle, day time.Time, s []domain.Suggestion) error {
	c.entries[cacheKey(cycle, day)] = s
	return nil
}

func (c *memoryCache) InvalidateAll(_ context.Context) error {
	c.entries = make(map[string][]domain.Suggestion)
	c.invalidated++
	return nil
}

type memoryStorage struct {
	objects map[string][]byte
	err     error
}

func (m *memoryStorage) ListObjects(_ context.Context, prefix string) ([]storage.ObjectInfo, error) {
	var out []storage.ObjectInfo
	for k, v := range m.objects {
		out = append(out, storage.ObjectInfo{Key: k, Size: int64(len(v))})
	}
	return out, nil
}

func (m *memoryStorage) UploadObject(_ context.Context, key string, data []byte, _ string) error {
	if m.err != nil {
		return m.err
	}
	if m.objects == nil {
		m.objects = make(map[string][]byte)
	}
	m.objects[key] = data
	return nil
}

func ptr[T any](v T) *T { return &v }
