package analytics

import (
	"math"
	"sort"

	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/entities"
)

// TrendFeatureTable holds the derived per-customer trend columns: for every
// tracked keyword an avg_, std_ and max_ aggregate over the customer's
// active months. Columns lists the derived names in a stable order.
type TrendFeatureTable struct {
	Columns []string
	Rows    map[string]map[string]float64
}

// Empty reports whether the merge produced no trend columns.
func (t TrendFeatureTable) Empty() bool {
	return len(t.Columns) == 0
}

// MergeTrendFeatures joins the monthly trend table onto each customer by the
// calendar months in which that customer transacted, then aggregates every
// trend column to mean/std/max per customer. Months without trend coverage
// contribute nothing to the aggregates; customers left without any coverage
// are imputed with the column-wide mean rather than zero, so absence of
// data does not read as absence of interest. An empty trend table returns
// an empty result and never fails the pipeline.
func MergeTrendFeatures(customerIDs []string, trends []entities.MonthlyTrend, txs []entities.Transaction) TrendFeatureTable {
	if len(trends) == 0 || len(customerIDs) == 0 {
		return TrendFeatureTable{}
	}

	// Index the trend table by month and collect the keyword set.
	byMonth := make(map[string]map[string]float64, len(trends))
	keywordSet := make(map[string]struct{})
	for _, row := range trends {
		byMonth[row.YearMonth] = row.Values
		for kw := range row.Values {
			keywordSet[kw] = struct{}{}
		}
	}
	if len(keywordSet) == 0 {
		return TrendFeatureTable{}
	}

	keywords := make([]string, 0, len(keywordSet))
	for kw := range keywordSet {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)

	// Distinct active months per customer.
	activeMonths := make(map[string]map[string]struct{})
	for _, tx := range txs {
		months, ok := activeMonths[tx.CustomerID]
		if !ok {
			months = make(map[string]struct{})
			activeMonths[tx.CustomerID] = months
		}
		months[tx.YearMonth()] = struct{}{}
	}

	columns := make([]string, 0, len(keywords)*3)
	for _, kw := range keywords {
		col := entities.TrendColumn(kw)
		columns = append(columns, "avg_"+col, "std_"+col, "max_"+col)
	}

	rows := make(map[string]map[string]float64, len(customerIDs))
	for _, id := range customerIDs {
		row := make(map[string]float64, len(columns))
		for _, kw := range keywords {
			values := make([]float64, 0)
			for month := range activeMonths[id] {
				if monthValues, ok := byMonth[month]; ok {
					if v, ok := monthValues[kw]; ok {
						values = append(values, v)
					}
				}
			}
			col := entities.TrendColumn(kw)
			row["avg_"+col] = Mean(values)
			row["std_"+col] = SampleStd(values)
			row["max_"+col] = Max(values)
		}
		rows[id] = row
	}

	imputeColumnMeans(columns, rows)
	return TrendFeatureTable{Columns: columns, Rows: rows}
}

// imputeColumnMeans replaces NaN cells with the mean of the column over all
// customers that do have a value. A column that is NaN everywhere stays NaN.
func imputeColumnMeans(columns []string, rows map[string]map[string]float64) {
	for _, col := range columns {
		sum := 0.0
		n := 0
		for _, row := range rows {
			if v := row[col]; !math.IsNaN(v) {
				sum += v
				n++
			}
		}
		if n == 0 {
			continue
		}
		mean := sum / float64(n)
		for _, row := range rows {
			if math.IsNaN(row[col]) {
				row[col] = mean
			}
		}
	}
}
