package engine

import "github.com/andresuchdata/m2go-inventory/internal/domain"

// PoolTotals is the pooled usage and inventory of one pool group across all member products
type PoolTotals struct {
	Group PoolGroup
	Aggregate
	TotalWeight float64
}

// Share returns the fraction of the pool owed to a member code: weight / total weight.
// Zero-weight groups and non-members get zero.
func (t *PoolTotals) Share(code string) float64 {
	if t == nil || t.TotalWeight <= 0 {
		return 0
	}
	w, ok := t.Group.weight(normalizeCode(code))
	if !ok {
		return 0
	}
	return w / t.TotalWeight
}

// Allocate splits the pooled demand and inventory for one member.
func (t *PoolTotals) Allocate(code string) (demand, inventory, share float64) {
	share = t.Share(code)
	return t.DailyDemandBase * share, t.InventoryBase * share, share
}

// poolGroupFor returns the group the product belongs to, if any.
func (r Rules) poolGroupFor(p domain.Product) (PoolGroup, bool) {
	if p.PoolCode == nil {
		return PoolGroup{}, false
	}
	code := normalizeCode(*p.PoolCode)
	if code == "" {
		return PoolGroup{}, false
	}
	for _, g := range r.PoolGroups {
		if _, ok := g.weight(code); ok {
			return g, true
		}
	}
	return PoolGroup{}, false
}

// isPooled reports whether the variant is drawn from its product's shared pool.
func (r Rules) isPooled(p domain.Product, v domain.Variant) bool {
	g, ok := r.poolGroupFor(p)
	return ok && g.eligible(v.Form)
}

// BuildPools sums every pool-eligible variant into its group's totals.
// Each group in the rules gets an entry even when no variant contributes.
func BuildPools(products []domain.Product, stats map[int64]VariantStat, rules Rules) map[string]*PoolTotals {
	pools := make(map[string]*PoolTotals, len(rules.PoolGroups))
	for _, g := range rules.PoolGroups {
		pools[g.Key] = &PoolTotals{Group: g, TotalWeight: g.TotalWeight()}
	}

	for _, p := range products {
		g, ok := rules.poolGroupFor(p)
		if !ok {
			continue
		}
		totals := pools[g.Key]
		for _, v := range p.Variants {
			if !g.eligible(v.Form) {
				continue
			}
			s, ok := stats[v.ID]
			if !ok {
				s = VariantStat{Variant: v, Usage: Usage{Basis: BasisInsufficient}}
			}
			totals.add(s, "")
		}
	}

	return pools
}
