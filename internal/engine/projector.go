package engine

import "math"

// Projection is the stock target and raw purchase need for one product
type Projection struct {
	TargetStock float64
	RawQty      float64
	LoadingRisk bool
}

// Project computes target = demand × (cover + buffer) and the shortfall against inventory.
// Risk is flagged when current stock covers fewer days than the cycle needs.
func Project(dailyDemand, inventory, coverDays, safetyBufferDays float64) Projection {
	target := dailyDemand*coverDays + dailyDemand*safetyBufferDays
	p := Projection{
		TargetStock: target,
		RawQty:      math.Max(0, target-inventory),
	}
	if dailyDemand > 0 && inventory/dailyDemand < coverDays {
		p.LoadingRisk = true
	}
	return p
}
