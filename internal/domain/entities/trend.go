package entities

// MonthlyTrend is one row of the externally supplied trend table: a calendar
// month with one popularity value per tracked keyword. Values are nominally
// in [0,100] but not enforced here.
type MonthlyTrend struct {
	YearMonth string             `json:"year_month"`
	Values    map[string]float64 `json:"values"`
}

// TrendColumn builds the canonical column name for a keyword, matching the
// naming of the exported feature table ("trends_" prefix, spaces collapsed
// to underscores).
func TrendColumn(keyword string) string {
	out := make([]rune, 0, len(keyword)+7)
	out = append(out, []rune("trends_")...)
	for _, r := range keyword {
		if r == ' ' {
			out = append(out, '_')
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
