package engine

import (
	"fmt"

	"github.com/andresuchdata/m2go-inventory/internal/domain"
	"github.com/shopspring/decimal"
)

// Raw quantities are rounded to this many places before case division so float
// residue such as 123.00000000000001 does not add a case.
const quantizePrecision = 6

// Quantized is an orderable quantity with its unit and the notes explaining it
type Quantized struct {
	FinalQty float64
	Unit     string
	Warnings []string
	Notes    []string
	Issues   []domain.IssueCode
}

// Quantize applies the category's packaging rule to a raw base-unit quantity.
func Quantize(rawQty float64, p domain.Product, rule CategoryRule, missingConversion bool) Quantized {
	q := Quantized{FinalQty: rawQty, Unit: rule.BaseUnitLabel}

	if missingConversion {
		q.Warnings = append(q.Warnings, "warning: missing conversion, quantity may be inaccurate; complete the conversion setup first")
	}

	switch {
	case rule.CaseRounding:
		if p.CasePack == nil || *p.CasePack <= 0 {
			q.Notes = append(q.Notes, "error: missing case pack specification")
			q.Issues = append(q.Issues, domain.IssueMissingCasePack)
			return q
		}
		pack := decimal.NewFromFloat(*p.CasePack)
		cases := decimal.NewFromFloat(rawQty).Round(quantizePrecision).Div(pack).Ceil()
		q.FinalQty = cases.InexactFloat64()
		q.Unit = rule.CaseUnitLabel
		q.Notes = append(q.Notes, fmt.Sprintf("case rounding: %.2f -> %s %s (pack %s)", rawQty, cases.String(), rule.CaseUnitLabel, formatQty(*p.CasePack)))

	case rule.MinOrder:
		if p.MinOrderQty != nil && q.FinalQty > 0 && q.FinalQty < *p.MinOrderQty {
			q.FinalQty = *p.MinOrderQty
			q.Notes = append(q.Notes, fmt.Sprintf("raised to minimum order: %s", formatQty(*p.MinOrderQty)))
		}
	}

	return q
}
