package providers

import (
	"context"

	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/entities"
)

// LoyaltyPredictor is the boundary to the externally trained classifier.
// The returned probability is treated as an opaque real number in [0,1];
// the core performs no validation beyond what its own formulas clamp.
type LoyaltyPredictor interface {
	// Predict returns the probability that the customer becomes loyal
	Predict(ctx context.Context, features entities.FeatureVector) (float64, error)

	// PredictBatch returns one probability per input row, in input order
	PredictBatch(ctx context.Context, features []entities.FeatureVector) ([]float64, error)
}
