package predictor

import (
	"context"
	"math"

	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/entities"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/providers"
)

// MockPredictor is a deterministic stand-in for the model service. It scores
// customers with a fixed heuristic over the RFM core so local runs and tests
// produce stable, plausible probabilities without network access.
type MockPredictor struct{}

// NewMockPredictor creates a new mock predictor
func NewMockPredictor() providers.LoyaltyPredictor {
	return &MockPredictor{}
}

// Predict returns a heuristic loyalty probability
func (m *MockPredictor) Predict(ctx context.Context, features entities.FeatureVector) (float64, error) {
	return heuristicProbability(features), nil
}

// PredictBatch returns one probability per input row, in input order
func (m *MockPredictor) PredictBatch(ctx context.Context, features []entities.FeatureVector) ([]float64, error) {
	probs := make([]float64, len(features))
	for i, f := range features {
		probs[i] = heuristicProbability(f)
	}
	return probs, nil
}

// heuristicProbability mirrors the shape of the trained classifier: more
// frequent, higher spending, recently active customers score higher. Output
// stays inside (0,1) so downstream thresholds always see a usable value.
func heuristicProbability(f entities.FeatureVector) float64 {
	frequency := math.Min(1, float64(f.Frequency)/10)
	monetary := math.Min(1, f.Monetary/2000)
	recency := math.Max(0, (180-float64(f.Recency))/180)

	score := 0.45*frequency + 0.35*monetary + 0.20*recency
	return math.Min(0.98, math.Max(0.02, score))
}
