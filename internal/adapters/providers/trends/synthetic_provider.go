package trends

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/entities"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/providers"
	apperrors "github.com/magdamonroy1824/tfm-mm-ecommerce/pkg/errors"
)

// SyntheticProvider fabricates seasonal trend data for demos and local runs
// where no real search-interest export is available. Each keyword follows a
// yearly sine cycle around a base level of 50 with keyword-seeded noise, so
// repeated calls with the same inputs return identical tables.
type SyntheticProvider struct{}

// NewSyntheticProvider creates a synthetic trend provider.
func NewSyntheticProvider() providers.TrendProvider {
	return &SyntheticProvider{}
}

// MonthlyInterest generates one row per month in [fromMonth, toMonth].
func (p *SyntheticProvider) MonthlyInterest(ctx context.Context, keywords []string, fromMonth, toMonth string) ([]entities.MonthlyTrend, error) {
	from, err := time.Parse(monthLayout, fromMonth)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid from month %q", fromMonth))
	}
	to, err := time.Parse(monthLayout, toMonth)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid to month %q", toMonth))
	}
	if to.Before(from) {
		return nil, apperrors.NewValidationError("trend month range is inverted")
	}

	noise := make(map[string]*rand.Rand, len(keywords))
	for _, keyword := range keywords {
		noise[keyword] = rand.New(rand.NewSource(keywordSeed(keyword)))
	}

	var rows []entities.MonthlyTrend
	for month, idx := from, 0; !month.After(to); month, idx = month.AddDate(0, 1, 0), idx+1 {
		values := make(map[string]float64, len(keywords))
		for _, keyword := range keywords {
			base := 50 + 30*math.Sin(2*math.Pi*float64(idx)/12)
			value := base + noise[keyword].NormFloat64()*10
			values[keyword] = math.Trunc(clamp(value, 0, 100))
		}
		rows = append(rows, entities.MonthlyTrend{
			YearMonth: month.Format(monthLayout),
			Values:    values,
		})
	}
	return rows, nil
}

func keywordSeed(keyword string) int64 {
	h := fnv.New64a()
	h.Write([]byte(keyword))
	return int64(h.Sum64())
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
