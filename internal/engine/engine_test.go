package engine

import (
	"strings"
	"testing"

	"github.com/andresuchdata/m2go-inventory/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func byProduct(suggestions []domain.Suggestion) map[int64]domain.Suggestion {
	out := make(map[int64]domain.Suggestion, len(suggestions))
	for _, s := range suggestions {
		out[s.ProductID] = s
	}
	return out
}

func TestSuggestProteinCaseRounding(t *testing.T) {
	beef := domain.Product{
		ID: 1, Name: "Beef brisket", Category: domain.CategoryProtein, Supplier: "Meat Co",
		CasePack: ptr(10.0), IsActive: true,
		Variants: []domain.Variant{variant(1, 1, "Brisket raw", "RAW", ptr(1.0))},
	}
	snap := Snapshot{
		Products: []domain.Product{beef},
		Counts:   series(1, "2024-03-14", 30, 27, 24, 21),
		Settings: settings(4, 0),
		Now:      testNow,
	}

	out, err := New(DefaultRules()).Suggest(snap, domain.CycleMonday)
	require.NoError(t, err)
	require.Len(t, out, 1)

	s := out[0]
	assert.Equal(t, 12.0, s.SuggestedQty)
	assert.Equal(t, 2.0, s.FinalQty)
	assert.Equal(t, "case", s.Unit)
	assert.Equal(t, 3.0, s.Reason.DailyDemand)
	assert.Equal(t, 12.0, s.Reason.TargetStock)
	assert.Nil(t, s.Reason.PoolShare)
	assert.True(t, s.LoadingRisk)

	snap.Settings = settings(4, 0.8)
	snap.Balances = []domain.InventoryBalance{{VariantID: 1, OnHand: 0}}
	out, err = New(DefaultRules()).Suggest(snap, domain.CycleMonday)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.InDelta(t, 14.4, out[0].SuggestedQty, 1e-9)
	assert.Equal(t, 2.0, out[0].FinalQty)
}

func TestSuggestLoadingRisk(t *testing.T) {
	bokChoy := domain.Product{
		ID: 1, Name: "Bok choy", Category: domain.CategoryVeg, IsActive: true,
		Variants: []domain.Variant{variant(1, 1, "Bok choy", "RAW", ptr(1.0))},
	}
	snap := Snapshot{
		Products: []domain.Product{bokChoy},
		Counts:   series(1, "2024-03-14", 40, 30, 20),
		Balances: []domain.InventoryBalance{{VariantID: 1, OnHand: 20}},
		Settings: settings(4, 0),
		Now:      testNow,
	}

	out, err := New(DefaultRules()).Suggest(snap, domain.CycleFriday)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].LoadingRisk)
	assert.Equal(t, 20.0, out[0].FinalQty)
	assert.Contains(t, out[0].Notes, "risk:")
}

func TestSuggestShredPool(t *testing.T) {
	pooled := func(id int64, name, code string) domain.Product {
		return domain.Product{
			ID: id, Name: name, Category: domain.CategoryVeg, PoolCode: ptr(code), IsActive: true,
			Variants: []domain.Variant{
				variant(id*10, id, name+" raw", "RAW", ptr(1.0)),
				variant(id*10+1, id, name+" shred", "PREP_shred", ptr(1.0)),
			},
		}
	}
	products := []domain.Product{pooled(1, "Carrot", "carrot"), pooled(2, "Onion", "onion"), pooled(3, "Scallion", "scallion")}

	var counts []domain.CountRecord
	counts = append(counts, series(11, "2024-03-14", 20, 16, 12, 8)...)
	for _, id := range []int64{10, 20, 21, 30, 31} {
		counts = append(counts, series(id, "2024-03-14", 5, 5, 5)...)
	}

	out, err := New(DefaultRules()).Suggest(Snapshot{
		Products: products,
		Counts:   counts,
		Settings: settings(4, 0),
		Now:      testNow,
	}, domain.CycleMonday)
	require.NoError(t, err)
	require.Len(t, out, 3)

	got := byProduct(out)
	assert.Equal(t, 8.0, got[1].FinalQty)
	assert.Equal(t, 4.0, got[2].FinalQty)
	assert.Equal(t, 4.0, got[3].FinalQty)

	require.NotNil(t, got[1].Reason.PoolShare)
	assert.Equal(t, 0.5, *got[1].Reason.PoolShare)
	assert.Equal(t, 0.25, *got[3].Reason.PoolShare)

	details := got[1].Reason.Details
	require.NotEmpty(t, details)
	assert.Contains(t, details[0], "Carrot raw")
	assert.Equal(t, "shred mix pool (2:1:1) share=0.50", details[len(details)-1])
}

func TestSuggestKeepsNonEligibleCutsSeparate(t *testing.T) {
	carrot := domain.Product{
		ID: 1, Name: "Carrot", Category: domain.CategoryVeg, PoolCode: ptr("carrot"), IsActive: true,
		Variants: []domain.Variant{
			variant(10, 1, "Carrot dice", "PREP_dice", ptr(1.0)),
			variant(11, 1, "Carrot shred", "PREP_shred", ptr(1.0)),
		},
	}
	onion := domain.Product{
		ID: 2, Name: "Onion", Category: domain.CategoryVeg, PoolCode: ptr("onion"), IsActive: true,
		Variants: []domain.Variant{variant(20, 2, "Onion dice", "PREP_dice", ptr(1.0))},
	}

	var counts []domain.CountRecord
	counts = append(counts, series(10, "2024-03-14", 10, 8, 6)...)
	counts = append(counts, series(11, "2024-03-14", 5, 5, 5)...)
	counts = append(counts, series(20, "2024-03-14", 9, 6, 3)...)

	out, err := New(DefaultRules()).Suggest(Snapshot{
		Products: []domain.Product{carrot, onion},
		Counts:   counts,
		Settings: settings(2, 0),
		Now:      testNow,
	}, domain.CycleMonday)
	require.NoError(t, err)

	got := byProduct(out)
	assert.Equal(t, 4.0, got[1].FinalQty)
	assert.Equal(t, 6.0, got[2].FinalQty)
}

func TestSuggestInclusionRule(t *testing.T) {
	idle := domain.Product{
		ID: 1, Name: "Tofu", Category: domain.CategoryVeg, IsActive: true,
		Variants: []domain.Variant{variant(1, 1, "Tofu", "RAW", ptr(1.0))},
	}
	unconverted := domain.Product{
		ID: 2, Name: "Dumplings", Category: domain.CategoryFrozen, IsActive: true,
		Variants: []domain.Variant{variant(2, 2, "Dumplings bag", "RAW", nil)},
	}
	inactive := domain.Product{
		ID: 3, Name: "Squid", Category: domain.CategoryFrozen, IsActive: false,
		Variants: []domain.Variant{variant(3, 3, "Squid", "RAW", ptr(1.0))},
	}

	var counts []domain.CountRecord
	counts = append(counts, series(1, "2024-03-14", 5, 5, 5)...)
	counts = append(counts, series(2, "2024-03-14", 10, 8, 6)...)
	counts = append(counts, series(3, "2024-03-14", 30, 20, 10)...)

	out, err := New(DefaultRules()).Suggest(Snapshot{
		Products: []domain.Product{idle, unconverted, inactive},
		Counts:   counts,
		Settings: settings(4, 0.8),
		Now:      testNow,
	}, domain.CycleMonday)
	require.NoError(t, err)
	require.Len(t, out, 1)

	s := out[0]
	assert.Equal(t, int64(2), s.ProductID)
	assert.Zero(t, s.FinalQty)
	assert.Zero(t, s.Reason.DailyDemand)
	assert.True(t, s.HasIssue(domain.IssueMissingConversion))
	assert.True(t, strings.HasPrefix(s.Notes, "warning: missing conversion"))
}

func TestSuggestInsufficientHistoryIsFlagged(t *testing.T) {
	salmon := domain.Product{
		ID: 1, Name: "Salmon", Category: domain.CategoryFrozen, MinOrderQty: ptr(5.0), IsActive: true,
		Variants: []domain.Variant{
			variant(1, 1, "Salmon loin", "RAW", ptr(1.0)),
			variant(2, 1, "Salmon portion", "COOKED_CHILLED", ptr(0.5)),
		},
	}

	var counts []domain.CountRecord
	counts = append(counts, series(1, "2024-03-14", 3, 2.5, 2)...)
	counts = append(counts, series(2, "2024-03-14", 4, 2)...)

	out, err := New(DefaultRules()).Suggest(Snapshot{
		Products: []domain.Product{salmon},
		Counts:   counts,
		Settings: settings(4, 0),
		Now:      testNow,
	}, domain.CycleMonday)
	require.NoError(t, err)
	require.Len(t, out, 1)

	s := out[0]
	assert.Equal(t, 5.0, s.FinalQty)
	assert.True(t, s.HasIssue(domain.IssueInsufficientHistory))
	assert.Contains(t, s.Notes, "insufficient data")
	assert.Contains(t, s.Notes, "raised to minimum order: 5")
}

func TestSuggestFiltersAndSortsCountWindow(t *testing.T) {
	p := domain.Product{
		ID: 1, Name: "Cabbage", Category: domain.CategoryVeg, IsActive: true,
		Variants: []domain.Variant{variant(1, 1, "Cabbage", "RAW", ptr(1.0))},
	}
	counts := []domain.CountRecord{
		{VariantID: 1, Date: day("2024-03-14"), CountedQty: 4},
		{VariantID: 1, Date: day("2024-03-11"), CountedQty: 10},
		{VariantID: 1, Date: day("2024-03-13"), CountedQty: 9},
		{VariantID: 1, Date: day("2024-03-12"), CountedQty: 7},
		{VariantID: 1, Date: day("2024-01-02"), CountedQty: 500},
		{VariantID: 1, Date: day("2024-03-20"), CountedQty: 0},
	}

	out, err := New(DefaultRules()).Suggest(Snapshot{
		Products: []domain.Product{p},
		Counts:   counts,
		Settings: settings(3, 0),
		Now:      testNow,
	}, domain.CycleMonday)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.InDelta(t, 8.0/3.0, out[0].Reason.DailyDemand, 1e-9)
	assert.InDelta(t, 8.0, out[0].FinalQty, 1e-9)
}

func TestSuggestZeroWeightPool(t *testing.T) {
	rules := DefaultRules()
	rules.PoolGroups = []PoolGroup{{
		Key:           "broken",
		Label:         "broken",
		EligibleForms: []string{"PREP_shred"},
		Members:       []PoolMember{{Code: "carrot", Weight: 0}},
	}}
	carrot := domain.Product{
		ID: 1, Name: "Carrot", Category: domain.CategoryVeg, PoolCode: ptr("carrot"), IsActive: true,
		Variants: []domain.Variant{
			variant(10, 1, "Carrot raw", "RAW", ptr(1.0)),
			variant(11, 1, "Carrot shred", "PREP_shred", ptr(1.0)),
		},
	}
	var counts []domain.CountRecord
	counts = append(counts, series(10, "2024-03-14", 9, 6, 3)...)
	counts = append(counts, series(11, "2024-03-14", 90, 60, 30)...)

	out, err := New(rules).Suggest(Snapshot{
		Products: []domain.Product{carrot},
		Counts:   counts,
		Settings: settings(2, 0),
		Now:      testNow,
	}, domain.CycleMonday)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 6.0, out[0].FinalQty)
	assert.True(t, out[0].HasIssue(domain.IssueZeroWeightPool))
}

func TestSuggestRejectsUnknownCycle(t *testing.T) {
	_, err := New(DefaultRules()).Suggest(Snapshot{Settings: domain.DefaultSettings(), Now: testNow}, domain.OrderCycle("SUNDAY"))
	require.ErrorIs(t, err, domain.ErrInvalidCycle)
}

func TestSuggestIsIdempotent(t *testing.T) {
	products := []domain.Product{
		{ID: 1, Name: "Carrot", Category: domain.CategoryVeg, PoolCode: ptr("carrot"), IsActive: true, Variants: []domain.Variant{
			variant(11, 1, "Carrot shred", "PREP_shred", ptr(1.0)),
		}},
		{ID: 2, Name: "Chicken", Category: domain.CategoryProtein, CasePack: ptr(6.0), IsActive: true, Variants: []domain.Variant{
			variant(21, 2, "Chicken thigh", "RAW", ptr(1.0)),
		}},
	}
	var counts []domain.CountRecord
	counts = append(counts, series(11, "2024-03-14", 20, 15, 11, 8)...)
	counts = append(counts, series(21, "2024-03-14", 30, 22, 15)...)
	snap := Snapshot{
		Products: products,
		Counts:   counts,
		Balances: []domain.InventoryBalance{{VariantID: 21, OnHand: 15}},
		Settings: domain.DefaultSettings(),
		Now:      testNow,
	}

	eng := New(DefaultRules())
	first, err := eng.Suggest(snap, domain.CycleFriday)
	require.NoError(t, err)
	second, err := eng.Suggest(snap, domain.CycleFriday)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), first[0].ProductID)
}
