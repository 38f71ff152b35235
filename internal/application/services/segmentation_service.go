package services

import (
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/entities"
)

// SegmentResult is the outcome of classifying one customer: the segment
// plus its presentation badge. Icon and color are opaque strings carried
// through to the presentation layer unchanged.
type SegmentResult struct {
	Segment entities.Segment `json:"segment"`
	Icon    string           `json:"icon"`
	Color   string           `json:"color"`
}

// segmentRule is one tier of the classification cascade. A matching tier
// resolves to primary when the predicted probability reaches minProbability
// and to fallback otherwise.
type segmentRule struct {
	matches        func(recency, frequency int, monetary float64) bool
	minProbability float64
	primary        entities.Segment
	fallback       entities.Segment
}

type segmentBadge struct {
	icon  string
	color string
}

// SegmentationService assigns customers to business segments from RFM and
// the predicted loyalty probability. It is a pure rule engine, independent
// of any trained model.
type SegmentationService struct {
	rules  []segmentRule
	badges map[entities.Segment]segmentBadge
}

// NewSegmentationService builds the service with the fixed tier cascade.
// Order matters: tiers are evaluated first-match-wins, and boundary values
// belong to the "<=" branch.
func NewSegmentationService() *SegmentationService {
	return &SegmentationService{
		rules: []segmentRule{
			{
				matches: func(r, f int, m float64) bool {
					return r <= 30 && f >= 8 && m >= 1000
				},
				minProbability: 0.8,
				primary:        entities.SegmentChampions,
				fallback:       entities.SegmentLoyalCustomers,
			},
			{
				matches: func(r, f int, m float64) bool {
					return r <= 60 && f >= 5 && m >= 500
				},
				minProbability: 0.7,
				primary:        entities.SegmentPotentialLoyalists,
				fallback:       entities.SegmentNewCustomers,
			},
			{
				matches: func(r, f int, m float64) bool {
					return r <= 90 && f >= 3
				},
				minProbability: 0.6,
				primary:        entities.SegmentPromising,
				fallback:       entities.SegmentNeedAttention,
			},
			{
				// Probability is ignored at this tier.
				matches: func(r, f int, m float64) bool {
					return r > 90 && f >= 2
				},
				primary:  entities.SegmentAtRisk,
				fallback: entities.SegmentAtRisk,
			},
		},
		badges: map[entities.Segment]segmentBadge{
			entities.SegmentChampions:          {icon: "🏆", color: "#28a745"},
			entities.SegmentLoyalCustomers:     {icon: "💎", color: "#17a2b8"},
			entities.SegmentPotentialLoyalists: {icon: "⭐", color: "#ffc107"},
			entities.SegmentNewCustomers:       {icon: "🌱", color: "#6f42c1"},
			entities.SegmentPromising:          {icon: "📈", color: "#fd7e14"},
			entities.SegmentNeedAttention:      {icon: "⚠️", color: "#dc3545"},
			entities.SegmentAtRisk:             {icon: "🚨", color: "#e83e8c"},
			entities.SegmentLost:               {icon: "💔", color: "#6c757d"},
		},
	}
}

// Classify maps (Recency, Frequency, Monetary, probability) to exactly one
// of the eight segments. Total over all inputs: anything not caught by a
// tier is Lost.
func (s *SegmentationService) Classify(recency, frequency int, monetary, probability float64) SegmentResult {
	segment := entities.SegmentLost
	for _, rule := range s.rules {
		if !rule.matches(recency, frequency, monetary) {
			continue
		}
		if probability >= rule.minProbability {
			segment = rule.primary
		} else {
			segment = rule.fallback
		}
		break
	}

	badge := s.badges[segment]
	return SegmentResult{
		Segment: segment,
		Icon:    badge.icon,
		Color:   badge.color,
	}
}
