package domain

// IssueCode marks a per-product condition the user should look at
type IssueCode string

const (
	IssueMissingConversion   IssueCode = "missing_conversion"
	IssueInsufficientHistory IssueCode = "insufficient_history"
	IssueMissingCasePack     IssueCode = "missing_case_pack"
	IssueZeroWeightPool      IssueCode = "zero_weight_pool"
)

// Reason explains how a suggestion was derived
type Reason struct {
	CoverDays        float64  `json:"cover_days"`
	DailyDemand      float64  `json:"daily_demand"`
	SafetyBuffer     float64  `json:"safety_buffer"`
	TargetStock      float64  `json:"target_stock"`
	CurrentInventory float64  `json:"current_inventory"`
	RawQty           float64  `json:"q_raw"`
	PoolShare        *float64 `json:"pool_share,omitempty"`
	Details          []string `json:"details"`
}

// Suggestion is the engine's order proposal for one product
type Suggestion struct {
	ProductID    int64       `json:"product_id"`
	ProductName  string      `json:"product_name"`
	Category     Category    `json:"product_category"`
	Supplier     string      `json:"supplier"`
	SortOrder    *int        `json:"product_sort_order"`
	SuggestedQty float64     `json:"suggested_qty"`
	FinalQty     float64     `json:"final_qty"`
	Unit         string      `json:"unit"`
	Reason       Reason      `json:"reason_json"`
	Notes        string      `json:"notes"`
	Issues       []IssueCode `json:"issues"`
	LoadingRisk  bool        `json:"loading_risk"`
}

// HasIssue reports whether code was raised for the suggestion.
func (s Suggestion) HasIssue(code IssueCode) bool {
	for _, c := range s.Issues {
		if c == code {
			return true
		}
	}
	return false
}
