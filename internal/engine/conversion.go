package engine

import (
	"fmt"
	"strconv"

	"github.com/andresuchdata/m2go-inventory/internal/domain"
)

// VariantStat is a variant with its estimated usage and current on-hand balance
type VariantStat struct {
	Variant domain.Variant
	Usage   Usage
	OnHand  float64
}

// Aggregate is demand and inventory expressed in the product's base unit
type Aggregate struct {
	DailyDemandBase   float64
	InventoryBase     float64
	MissingConversion bool
	DataInsufficient  bool
	Details           []string
}

// AggregateVariants converts each variant's rate and balance to base units and sums them.
// A variant without a conversion factor contributes nothing and flags the aggregate.
func AggregateVariants(stats []VariantStat) Aggregate {
	var agg Aggregate
	for _, s := range stats {
		agg.add(s, "")
	}
	return agg
}

func (a *Aggregate) add(s VariantStat, tag string) {
	if s.Usage.Basis == BasisInsufficient {
		a.DataInsufficient = true
	}

	label := s.Variant.DisplayName
	if tag != "" {
		label += " " + tag
	}

	factor := s.Variant.ConversionToBase
	if factor == nil {
		a.MissingConversion = true
		a.Details = append(a.Details, fmt.Sprintf("%s: [no conversion] rate=%.2f (%s), stock=%s", label, s.Usage.DailyRate, s.Usage.Describe(), formatQty(s.OnHand)))
		return
	}

	a.DailyDemandBase += s.Usage.DailyRate * *factor
	a.InventoryBase += s.OnHand * *factor
	a.Details = append(a.Details, fmt.Sprintf("%s: rate=%.2f (%s), stock=%s", label, s.Usage.DailyRate, s.Usage.Describe(), formatQty(s.OnHand)))
}

func formatQty(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
