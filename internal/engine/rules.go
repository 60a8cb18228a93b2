package engine

import (
	"fmt"
	"strings"

	"github.com/andresuchdata/m2go-inventory/internal/domain"
	"github.com/spf13/viper"
)

// PoolMember is one product code in a shared pool and its blend weight
type PoolMember struct {
	Code   string  `mapstructure:"code" json:"code"`
	Weight float64 `mapstructure:"weight" json:"weight"`
}

// PoolGroup describes variants of several products that are prepped from one mixed batch.
// Only variants whose form is listed in EligibleForms are pooled.
type PoolGroup struct {
	Key           string       `mapstructure:"key" json:"key"`
	Label         string       `mapstructure:"label" json:"label"`
	EligibleForms []string     `mapstructure:"eligible_forms" json:"eligible_forms"`
	Members       []PoolMember `mapstructure:"members" json:"members"`
}

// CategoryRule controls how a category's raw quantity becomes an orderable one
type CategoryRule struct {
	CaseRounding  bool   `mapstructure:"case_rounding" json:"case_rounding"`
	MinOrder      bool   `mapstructure:"min_order" json:"min_order"`
	BaseUnitLabel string `mapstructure:"base_unit_label" json:"base_unit_label"`
	CaseUnitLabel string `mapstructure:"case_unit_label" json:"case_unit_label"`
}

// Rules is the static configuration the engine runs against
type Rules struct {
	MinHistory  int                     `mapstructure:"min_history" json:"min_history"`
	PoolGroups  []PoolGroup             `mapstructure:"pool_groups" json:"pool_groups"`
	Categories  map[string]CategoryRule `mapstructure:"categories" json:"categories"`
	DefaultRule CategoryRule            `mapstructure:"default_rule" json:"default_rule"`
}

const (
	defaultMinHistory    = 3
	defaultBaseUnitLabel = "base unit"
	defaultCaseUnitLabel = "case"
)

// DefaultRules returns the built-in table: protein rounds to whole cases, everything
// else honours minimum order quantities, and shredded carrot/onion/scallion share a 2:1:1 pool.
func DefaultRules() Rules {
	return Rules{
		MinHistory: defaultMinHistory,
		PoolGroups: []PoolGroup{
			{
				Key:           "shred_mix",
				Label:         "shred mix",
				EligibleForms: []string{"PREP_shred"},
				Members: []PoolMember{
					{Code: "carrot", Weight: 2},
					{Code: "onion", Weight: 1},
					{Code: "scallion", Weight: 1},
				},
			},
		},
		Categories: map[string]CategoryRule{
			string(domain.CategoryProtein): {CaseRounding: true, BaseUnitLabel: defaultBaseUnitLabel, CaseUnitLabel: defaultCaseUnitLabel},
			string(domain.CategoryVeg):     {MinOrder: true, BaseUnitLabel: defaultBaseUnitLabel, CaseUnitLabel: defaultCaseUnitLabel},
			string(domain.CategoryFrozen):  {MinOrder: true, BaseUnitLabel: defaultBaseUnitLabel, CaseUnitLabel: defaultCaseUnitLabel},
		},
		DefaultRule: CategoryRule{MinOrder: true, BaseUnitLabel: defaultBaseUnitLabel, CaseUnitLabel: defaultCaseUnitLabel},
	}
}

// LoadRules reads a YAML/JSON/TOML rules file. An empty path returns DefaultRules.
// Fields missing from the file keep their defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if strings.TrimSpace(path) == "" {
		return rules, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Rules{}, fmt.Errorf("read rules file %s: %w", path, err)
	}

	if v.IsSet("pool_groups") {
		rules.PoolGroups = nil
	}
	if v.IsSet("categories") {
		rules.Categories = nil
	}
	if err := v.Unmarshal(&rules); err != nil {
		return Rules{}, fmt.Errorf("decode rules file %s: %w", path, err)
	}

	rules.normalize()
	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

func (r *Rules) normalize() {
	if r.MinHistory <= 0 {
		r.MinHistory = defaultMinHistory
	}
	fill := func(rule CategoryRule) CategoryRule {
		if rule.BaseUnitLabel == "" {
			rule.BaseUnitLabel = defaultBaseUnitLabel
		}
		if rule.CaseUnitLabel == "" {
			rule.CaseUnitLabel = defaultCaseUnitLabel
		}
		return rule
	}
	r.DefaultRule = fill(r.DefaultRule)
	normalized := make(map[string]CategoryRule, len(r.Categories))
	for name, rule := range r.Categories {
		normalized[strings.ToLower(strings.TrimSpace(name))] = fill(rule)
	}
	r.Categories = normalized
	for i := range r.PoolGroups {
		for j := range r.PoolGroups[i].Members {
			r.PoolGroups[i].Members[j].Code = normalizeCode(r.PoolGroups[i].Members[j].Code)
		}
	}
}

// Validate rejects tables the engine cannot interpret unambiguously.
// A group whose weights sum to zero is accepted and allocates nothing.
func (r Rules) Validate() error {
	seenGroups := make(map[string]bool)
	seenMembers := make(map[string]string)
	for _, g := range r.PoolGroups {
		if strings.TrimSpace(g.Key) == "" {
			return fmt.Errorf("%w: pool group without key", domain.ErrInvalidInput)
		}
		if seenGroups[g.Key] {
			return fmt.Errorf("%w: duplicate pool group %q", domain.ErrInvalidInput, g.Key)
		}
		seenGroups[g.Key] = true
		if len(g.EligibleForms) == 0 {
			return fmt.Errorf("%w: pool group %q has no eligible forms", domain.ErrInvalidInput, g.Key)
		}
		for _, m := range g.Members {
			code := normalizeCode(m.Code)
			if code == "" {
				return fmt.Errorf("%w: pool group %q has a member without code", domain.ErrInvalidInput, g.Key)
			}
			if m.Weight < 0 {
				return fmt.Errorf("%w: pool member %q has negative weight", domain.ErrInvalidInput, code)
			}
			if other, ok := seenMembers[code]; ok {
				return fmt.Errorf("%w: pool member %q is in both %q and %q", domain.ErrInvalidInput, code, other, g.Key)
			}
			seenMembers[code] = g.Key
		}
	}
	return nil
}

// CategoryRule returns the rule for a category, falling back to the default rule.
func (r Rules) CategoryRule(category domain.Category) CategoryRule {
	if rule, ok := r.Categories[strings.ToLower(string(category))]; ok {
		return rule
	}
	return r.DefaultRule
}

// TotalWeight sums the member weights of the group.
func (g PoolGroup) TotalWeight() float64 {
	var total float64
	for _, m := range g.Members {
		total += m.Weight
	}
	return total
}

// RatioLabel renders the member weights as "2:1:1".
func (g PoolGroup) RatioLabel() string {
	parts := make([]string, len(g.Members))
	for i, m := range g.Members {
		parts[i] = formatQty(m.Weight)
	}
	return strings.Join(parts, ":")
}

func (g PoolGroup) weight(code string) (float64, bool) {
	for _, m := range g.Members {
		if m.Code == code {
			return m.Weight, true
		}
	}
	return 0, false
}

func (g PoolGroup) eligible(form string) bool {
	for _, f := range g.EligibleForms {
		if f == form {
			return true
		}
	}
	return false
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
