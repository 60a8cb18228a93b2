package engine

import (
	"fmt"
	"math"

	"github.com/andresuchdata/m2go-inventory/internal/domain"
)

// UsageBasis says what a usage estimate rests on
type UsageBasis string

const (
	BasisHistory      UsageBasis = "history"
	BasisInsufficient UsageBasis = "insufficient_data"
	BasisNoData       UsageBasis = "no_data"
)

// Usage is the estimated daily consumption of one variant, in its own container units
type Usage struct {
	DailyRate float64
	Basis     UsageBasis
	Intervals int
}

// Describe renders the basis for the detail trail.
func (u Usage) Describe() string {
	switch u.Basis {
	case BasisHistory:
		return fmt.Sprintf("based on %d intervals", u.Intervals)
	case BasisInsufficient:
		return "insufficient data"
	default:
		return "no consumption data"
	}
}

// EstimateUsage derives a daily rate from counts sorted by date ascending.
// Only decreases between consecutive counts count as consumption; restocks contribute zero.
func EstimateUsage(counts []domain.CountRecord, minHistory int) Usage {
	if len(counts) < minHistory {
		return Usage{Basis: BasisInsufficient}
	}

	var total float64
	intervals := 0
	for i := 1; i < len(counts); i++ {
		total += math.Max(0, counts[i-1].CountedQty-counts[i].CountedQty)
		intervals++
	}

	if intervals == 0 {
		return Usage{Basis: BasisNoData}
	}

	return Usage{
		DailyRate: total / float64(intervals),
		Basis:     BasisHistory,
		Intervals: intervals,
	}
}
