package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/entities"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/providers"
	apperrors "github.com/magdamonroy1824/tfm-mm-ecommerce/pkg/errors"
)

const monthLayout = "2006-01"

// FileProvider serves trend data from a JSON export on disk. The file holds
// an array of monthly rows; exports typically come from an offline pull of
// the search-interest API for the configured keywords.
type FileProvider struct {
	path string
}

// NewFileProvider creates a trend provider reading from the given JSON file.
func NewFileProvider(path string) providers.TrendProvider {
	return &FileProvider{path: path}
}

// MonthlyInterest returns the file's rows restricted to the requested
// keywords and month range, sorted by month.
func (p *FileProvider) MonthlyInterest(ctx context.Context, keywords []string, fromMonth, toMonth string) ([]entities.MonthlyTrend, error) {
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

	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, apperrors.NewMissingDataError(fmt.Sprintf("trend file %s is not readable", p.path), err)
	}

	var rows []entities.MonthlyTrend
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, apperrors.NewMissingDataError(fmt.Sprintf("trend file %s is not valid JSON", p.path), err)
	}

	wanted := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		wanted[k] = true
	}

	var out []entities.MonthlyTrend
	for _, row := range rows {
		month, err := time.Parse(monthLayout, row.YearMonth)
		if err != nil {
			return nil, apperrors.NewMissingDataError(
				fmt.Sprintf("trend file %s has a malformed month %q", p.path, row.YearMonth), nil)
		}
		if month.Before(from) || month.After(to) {
			continue
		}

		values := make(map[string]float64, len(keywords))
		for keyword, value := range row.Values {
			if wanted[keyword] {
				values[keyword] = value
			}
		}
		if len(values) == 0 {
			continue
		}
		out = append(out, entities.MonthlyTrend{YearMonth: row.YearMonth, Values: values})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].YearMonth < out[j].YearMonth })
	return out, nil
}
