package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/entities"
)

func TestClassifyAllSegments(t *testing.T) {
	s := NewSegmentationService()

	tests := []struct {
		name        string
		recency     int
		frequency   int
		monetary    float64
		probability float64
		want        entities.Segment
	}{
		{"champions", 10, 12, 2500, 0.9, entities.SegmentChampions},
		{"loyal when probability low", 10, 12, 2500, 0.5, entities.SegmentLoyalCustomers},
		{"potential loyalists", 45, 6, 800, 0.75, entities.SegmentPotentialLoyalists},
		{"new customers when probability low", 45, 6, 800, 0.3, entities.SegmentNewCustomers},
		{"promising", 80, 4, 300, 0.65, entities.SegmentPromising},
		{"need attention when probability low", 80, 4, 300, 0.2, entities.SegmentNeedAttention},
		{"at risk", 150, 3, 900, 0.9, entities.SegmentAtRisk},
		{"lost", 400, 1, 20, 0.9, entities.SegmentLost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Classify(tt.recency, tt.frequency, tt.monetary, tt.probability)
			assert.Equal(t, tt.want, got.Segment)
		})
	}
}

func TestClassifyBoundaryValues(t *testing.T) {
	s := NewSegmentationService()

	// Boundary values sit on the <= side of each tier.
	assert.Equal(t, entities.SegmentChampions, s.Classify(30, 8, 1000, 0.8).Segment)
	assert.Equal(t, entities.SegmentLoyalCustomers, s.Classify(30, 8, 1000, 0.79999).Segment)

	assert.Equal(t, entities.SegmentPotentialLoyalists, s.Classify(60, 5, 500, 0.7).Segment)
	assert.Equal(t, entities.SegmentPromising, s.Classify(90, 3, 0, 0.6).Segment)

	// Recency 91 falls out of the promising tier into at risk.
	assert.Equal(t, entities.SegmentAtRisk, s.Classify(91, 3, 0, 0.99).Segment)
}

func TestClassifyAtRiskIgnoresProbability(t *testing.T) {
	s := NewSegmentationService()

	for _, p := range []float64{0, 0.5, 0.99} {
		got := s.Classify(150, 2, 200, p)
		assert.Equal(t, entities.SegmentAtRisk, got.Segment, "probability %v", p)
	}
}

func TestClassifyHigherTierWinsOverLater(t *testing.T) {
	s := NewSegmentationService()

	// A customer matching the first tier never reaches the second even
	// though its thresholds also hold.
	got := s.Classify(25, 9, 1500, 0.75)
	assert.Equal(t, entities.SegmentLoyalCustomers, got.Segment)
}

func TestClassifyIsTotal(t *testing.T) {
	s := NewSegmentationService()

	// Low-frequency dormant customers fall through every tier.
	got := s.Classify(400, 1, 5000, 1.0)
	assert.Equal(t, entities.SegmentLost, got.Segment)

	// Recency over 90 with a single purchase is Lost, not At Risk.
	got = s.Classify(120, 1, 800, 0.9)
	assert.Equal(t, entities.SegmentLost, got.Segment)

	// Every classification lands on a defined segment.
	for r := 0; r <= 200; r += 25 {
		for f := 0; f <= 12; f += 3 {
			result := s.Classify(r, f, float64(f)*150, 0.5)
			assert.True(t, result.Segment.IsValid(), "R=%d F=%d produced %q", r, f, result.Segment)
		}
	}
}

func TestClassifyBadges(t *testing.T) {
	s := NewSegmentationService()

	champion := s.Classify(5, 10, 2000, 0.95)
	assert.Equal(t, "🏆", champion.Icon)
	assert.Equal(t, "#28a745", champion.Color)

	lost := s.Classify(400, 1, 10, 0.1)
	assert.Equal(t, "💔", lost.Icon)
	assert.Equal(t, "#6c757d", lost.Color)
}
