package providers

import (
	"context"

	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/entities"
)

// TrendProvider supplies the monthly-aggregated popularity table for a set
// of keywords. An empty result is a valid outcome: the feature pipeline
// degrades to RFM-only features rather than failing.
type TrendProvider interface {
	// MonthlyInterest returns one row per calendar month between from and
	// to (inclusive, "2006-01" keys) with a value per requested keyword
	MonthlyInterest(ctx context.Context, keywords []string, fromMonth, toMonth string) ([]entities.MonthlyTrend, error)
}
