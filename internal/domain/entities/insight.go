package entities

// Segment represents one of the eight mutually exclusive business-facing
// customer categories.
type Segment string

const (
	SegmentChampions          Segment = "Champions"
	SegmentLoyalCustomers     Segment = "Loyal Customers"
	SegmentPotentialLoyalists Segment = "Potential Loyalists"
	SegmentNewCustomers       Segment = "New Customers"
	SegmentPromising          Segment = "Promising"
	SegmentNeedAttention      Segment = "Need Attention"
	SegmentAtRisk             Segment = "At Risk"
	SegmentLost               Segment = "Lost"
)

// ValidSegments returns all defined segment values.
func ValidSegments() []Segment {
	return []Segment{
		SegmentChampions,
		SegmentLoyalCustomers,
		SegmentPotentialLoyalists,
		SegmentNewCustomers,
		SegmentPromising,
		SegmentNeedAttention,
		SegmentAtRisk,
		SegmentLost,
	}
}

// IsValid checks if the segment value is one of the defined constants.
func (s Segment) IsValid() bool {
	switch s {
	case SegmentChampions, SegmentLoyalCustomers, SegmentPotentialLoyalists,
		SegmentNewCustomers, SegmentPromising, SegmentNeedAttention,
		SegmentAtRisk, SegmentLost:
		return true
	}
	return false
}

// Risk levels derived from Recency alone. Intentionally independent of the
// segmentation tiers: a positive-leaning segment can still report "Medio".
const (
	RiskLow    = "Bajo"
	RiskMedium = "Medio"
	RiskHigh   = "Alto"
)

// Playbook is the static business-action bundle attached to a segment.
type Playbook struct {
	Strategy    string   `json:"strategy"`
	Actions     []string `json:"actions"`
	BudgetTier  string   `json:"budget_tier"`
	Priority    string   `json:"priority"`
	ExpectedROI string   `json:"expected_roi"`
}

// Insight is the immutable per-customer record produced by the composer.
// Identical inputs always yield an identical record; records are computed
// fresh on each request and never cached.
type Insight struct {
	CustomerID       string   `json:"customer_id"`
	Segment          Segment  `json:"segment"`
	SegmentIcon      string   `json:"segment_icon"`
	SegmentColor     string   `json:"segment_color"`
	Probability      float64  `json:"probability"`
	ValueScore       float64  `json:"value_score"`
	RiskLevel        string   `json:"risk_level"`
	RiskColor        string   `json:"risk_color"`
	Strategy         string   `json:"strategy"`
	Actions          []string `json:"actions"`
	NextActions      []string `json:"next_actions"`
	SuggestedBudget  float64  `json:"suggested_budget"`
	CampaignPriority string   `json:"campaign_priority"`
	ExpectedROI      string   `json:"expected_roi"`
}
