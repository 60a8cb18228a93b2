package engine

import (
	"fmt"
	"strings"

	"github.com/andresuchdata/m2go-inventory/internal/domain"
)

const (
	noteInsufficientHistory = "insufficient data: daily usage estimated as 0; set it manually or keep recording counts"
	noteLoadingRisk         = "risk: stock may not last until the next delivery"
)

// productResult carries everything computed for one product
type productResult struct {
	product    domain.Product
	agg        Aggregate
	poolShare  *float64
	zeroPool   string
	coverDays  float64
	buffer     float64
	projection Projection
	quantized  Quantized
}

// assemble builds the suggestion and reports whether it belongs in the output:
// only products with something to order or a missing conversion are surfaced.
func assemble(r productResult) (domain.Suggestion, bool) {
	var (
		notes  []string
		issues []domain.IssueCode
	)

	notes = append(notes, r.quantized.Warnings...)
	if r.agg.MissingConversion {
		issues = append(issues, domain.IssueMissingConversion)
	}
	if r.agg.DataInsufficient {
		notes = append(notes, noteInsufficientHistory)
		issues = append(issues, domain.IssueInsufficientHistory)
	}
	if r.projection.LoadingRisk {
		notes = append(notes, noteLoadingRisk)
	}
	if r.zeroPool != "" {
		notes = append(notes, fmt.Sprintf("configuration: pool %q has zero total weight, nothing allocated", r.zeroPool))
		issues = append(issues, domain.IssueZeroWeightPool)
	}
	notes = append(notes, r.quantized.Notes...)
	issues = append(issues, r.quantized.Issues...)

	details := r.agg.Details
	if details == nil {
		details = []string{}
	}

	s := domain.Suggestion{
		ProductID:    r.product.ID,
		ProductName:  r.product.Name,
		Category:     r.product.Category,
		Supplier:     r.product.Supplier,
		SortOrder:    r.product.SortOrder,
		SuggestedQty: r.projection.RawQty,
		FinalQty:     r.quantized.FinalQty,
		Unit:         r.quantized.Unit,
		Reason: domain.Reason{
			CoverDays:        r.coverDays,
			DailyDemand:      r.agg.DailyDemandBase,
			SafetyBuffer:     r.buffer,
			TargetStock:      r.projection.TargetStock,
			CurrentInventory: r.agg.InventoryBase,
			RawQty:           r.projection.RawQty,
			PoolShare:        r.poolShare,
			Details:          details,
		},
		Notes:       strings.Join(notes, "; "),
		Issues:      issues,
		LoadingRisk: r.projection.LoadingRisk,
	}

	return s, s.FinalQty > 0 || r.agg.MissingConversion
}
