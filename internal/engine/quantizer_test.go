package engine

import (
	"testing"

	"github.com/andresuchdata/m2go-inventory/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject(t *testing.T) {
	p := Project(10, 20, 4, 0)
	assert.Equal(t, 40.0, p.TargetStock)
	assert.Equal(t, 20.0, p.RawQty)
	assert.True(t, p.LoadingRisk)

	p = Project(25, 150, 4, 0)
	assert.Equal(t, 100.0, p.TargetStock)
	assert.Zero(t, p.RawQty)
	assert.False(t, p.LoadingRisk)

	p = Project(0, 0, 4, 0.8)
	assert.Zero(t, p.RawQty)
	assert.False(t, p.LoadingRisk)
}

func TestQuantizeProteinRoundsUpToCases(t *testing.T) {
	rules := DefaultRules()
	beef := domain.Product{Category: domain.CategoryProtein, CasePack: ptr(10.0)}

	q := Quantize(25, beef, rules.CategoryRule(beef.Category), false)
	assert.Equal(t, 3.0, q.FinalQty)
	assert.Equal(t, "case", q.Unit)
	require.Len(t, q.Notes, 1)
	assert.Contains(t, q.Notes[0], "case rounding")
	assert.Empty(t, q.Issues)
}

func TestQuantizeIgnoresFloatResidue(t *testing.T) {
	rules := DefaultRules()
	p := domain.Product{Category: domain.CategoryProtein, CasePack: ptr(123.0)}

	q := Quantize(123.00000000000001, p, rules.CategoryRule(p.Category), false)
	assert.Equal(t, 1.0, q.FinalQty)
}

func TestQuantizeProteinWithoutCasePack(t *testing.T) {
	rules := DefaultRules()
	p := domain.Product{Category: domain.CategoryProtein}

	q := Quantize(7.5, p, rules.CategoryRule(p.Category), false)
	assert.Equal(t, 7.5, q.FinalQty)
	assert.Equal(t, "base unit", q.Unit)
	assert.Equal(t, []string{"error: missing case pack specification"}, q.Notes)
	assert.Equal(t, []domain.IssueCode{domain.IssueMissingCasePack}, q.Issues)
}

func TestQuantizeMinimumOrder(t *testing.T) {
	rules := DefaultRules()
	p := domain.Product{Category: domain.CategoryVeg, MinOrderQty: ptr(5.0), CasePack: ptr(10.0)}
	rule := rules.CategoryRule(p.Category)

	q := Quantize(2, p, rule, false)
	assert.Equal(t, 5.0, q.FinalQty)
	assert.Equal(t, "base unit", q.Unit)
	assert.Equal(t, []string{"raised to minimum order: 5"}, q.Notes)

	q = Quantize(0, p, rule, false)
	assert.Zero(t, q.FinalQty)
	assert.Empty(t, q.Notes)

	q = Quantize(6.5, p, rule, false)
	assert.Equal(t, 6.5, q.FinalQty)
}

func TestQuantizeWarnsOnMissingConversion(t *testing.T) {
	rules := DefaultRules()
	p := domain.Product{Category: domain.CategoryFrozen}

	q := Quantize(0, p, rules.CategoryRule(p.Category), true)
	require.Len(t, q.Warnings, 1)
	assert.Contains(t, q.Warnings[0], "missing conversion")
}

func TestUnknownCategoryUsesDefaultRule(t *testing.T) {
	rules := DefaultRules()
	assert.Equal(t, rules.DefaultRule, rules.CategoryRule("dry_goods"))
	assert.True(t, rules.CategoryRule("PROTEIN").CaseRounding)
}
