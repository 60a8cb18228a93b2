package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/andresuchdata/m2go-inventory/internal/domain"
)

// Snapshot is everything one suggestion run reads. Counts may extend beyond the
// lookback window; the engine applies the window itself.
type Snapshot struct {
	Products []domain.Product
	Counts   []domain.CountRecord
	Balances []domain.InventoryBalance
	Settings domain.Settings
	Now      time.Time
}

// Engine computes order suggestions from a snapshot and a static rules table.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	rules Rules
}

// New creates an engine for the given rules.
func New(rules Rules) *Engine {
	rules.normalize()
	return &Engine{rules: rules}
}

// Rules returns the table the engine runs against.
func (e *Engine) Rules() Rules {
	return e.rules
}

// Suggest runs usage estimation, pool allocation, conversion, projection and
// quantization for every active product and returns the actionable suggestions
// in product order.
func (e *Engine) Suggest(snap Snapshot, cycle domain.OrderCycle) ([]domain.Suggestion, error) {
	if !cycle.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidCycle, cycle)
	}

	coverDays := snap.Settings.CoverDays(cycle)
	buffer := snap.Settings.SafetyBufferDays

	series := countSeries(snap.Counts, snap.Now, snap.Settings.LookbackDays)

	onHand := make(map[int64]float64, len(snap.Balances))
	for _, b := range snap.Balances {
		onHand[b.VariantID] = b.OnHand
	}

	products := make([]domain.Product, 0, len(snap.Products))
	for _, p := range snap.Products {
		if p.IsActive {
			products = append(products, p)
		}
	}

	stats := make(map[int64]VariantStat)
	for _, p := range products {
		for _, v := range p.Variants {
			stats[v.ID] = VariantStat{
				Variant: v,
				Usage:   EstimateUsage(series[v.ID], e.rules.MinHistory),
				OnHand:  onHand[v.ID],
			}
		}
	}

	pools := BuildPools(products, stats, e.rules)

	suggestions := make([]domain.Suggestion, 0)
	for _, p := range products {
		res := productResult{product: p, coverDays: coverDays, buffer: buffer}

		own := make([]VariantStat, 0, len(p.Variants))
		for _, v := range p.Variants {
			if e.rules.isPooled(p, v) {
				continue
			}
			own = append(own, stats[v.ID])
		}
		res.agg = AggregateVariants(own)

		if g, ok := e.rules.poolGroupFor(p); ok {
			e.allocatePool(&res, pools[g.Key], stats)
		}

		res.projection = Project(res.agg.DailyDemandBase, res.agg.InventoryBase, coverDays, buffer)
		res.quantized = Quantize(res.projection.RawQty, p, e.rules.CategoryRule(p.Category), res.agg.MissingConversion)

		if s, ok := assemble(res); ok {
			suggestions = append(suggestions, s)
		}
	}

	return suggestions, nil
}

// allocatePool adds the product's weighted share of its pool to the aggregate.
func (e *Engine) allocatePool(res *productResult, totals *PoolTotals, stats map[int64]VariantStat) {
	for _, v := range res.product.Variants {
		if !totals.Group.eligible(v.Form) {
			continue
		}
		s := stats[v.ID]
		res.agg.Details = append(res.agg.Details, fmt.Sprintf("%s: [pooled] rate=%.2f (%s), stock=%s", v.DisplayName, s.Usage.DailyRate, s.Usage.Describe(), formatQty(s.OnHand)))
	}

	demand, inventory, share := totals.Allocate(*res.product.PoolCode)
	res.agg.DailyDemandBase += demand
	res.agg.InventoryBase += inventory
	res.poolShare = &share
	res.agg.Details = append(res.agg.Details, fmt.Sprintf("%s pool (%s) share=%.2f", totals.Group.Label, totals.Group.RatioLabel(), share))

	if totals.MissingConversion {
		res.agg.MissingConversion = true
	}
	if totals.DataInsufficient {
		res.agg.DataInsufficient = true
	}
	if totals.TotalWeight <= 0 {
		res.zeroPool = totals.Group.Key
	}
}

// countSeries groups counts inside [now-lookback, now] by variant, each sorted by date ascending.
func countSeries(counts []domain.CountRecord, now time.Time, lookbackDays int) map[int64][]domain.CountRecord {
	since := now.AddDate(0, 0, -lookbackDays).Format(domain.DateLayout)
	until := now.Format(domain.DateLayout)

	series := make(map[int64][]domain.CountRecord)
	for _, c := range counts {
		day := c.Date.Format(domain.DateLayout)
		if day < since || day > until {
			continue
		}
		series[c.VariantID] = append(series[c.VariantID], c)
	}
	for id := range series {
		s := series[id]
		sort.SliceStable(s, func(i, j int) bool { return s[i].Date.Before(s[j].Date) })
	}
	return series
}
