package repositories

import (
	"context"

	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/entities"
)

// FeatureRepository defines persistence for the per-customer feature rows
// produced by the feature pipeline.
type FeatureRepository interface {
	// ReplaceAll replaces the stored feature table with the given rows
	ReplaceAll(ctx context.Context, rows []entities.FeatureVector) error

	// GetByID retrieves one customer's feature row
	GetByID(ctx context.Context, customerID string) (*entities.FeatureVector, error)

	// List returns feature rows ordered by customer id
	List(ctx context.Context, limit, offset int) ([]entities.FeatureVector, error)

	// ListIDs returns every stored customer id
	ListIDs(ctx context.Context) ([]string, error)

	// TopByMonetary returns the n highest-value customers
	TopByMonetary(ctx context.Context, n int) ([]entities.FeatureVector, error)

	// AtRisk returns up to n customers with Recency > 90 days and Monetary
	// above the population median, ordered by Monetary descending
	AtRisk(ctx context.Context, n int) ([]entities.FeatureVector, error)

	// Sample returns up to n randomly chosen feature rows
	Sample(ctx context.Context, n int) ([]entities.FeatureVector, error)
}
