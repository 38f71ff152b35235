package services

import (
	"context"
	"math"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/analytics"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/entities"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/providers"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/repositories"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/infrastructure/observability"
)

// FeatureService runs the feature pipeline: cleaned transactions in,
// persisted per-customer feature rows out.
type FeatureService struct {
	transactions repositories.TransactionRepository
	features     repositories.FeatureRepository

	trendProvider providers.TrendProvider
	trendKeywords []string

	tracer trace.Tracer
}

// NewFeatureService creates a new feature pipeline service
func NewFeatureService(
	transactions repositories.TransactionRepository,
	features repositories.FeatureRepository,
) *FeatureService {
	return &FeatureService{
		transactions: transactions,
		features:     features,
		tracer:       otel.Tracer("feature-service"),
	}
}

// SetTrendProvider enables trend feature augmentation for the given
// keywords. Without a provider the pipeline produces RFM-only rows.
func (s *FeatureService) SetTrendProvider(provider providers.TrendProvider, keywords []string) {
	s.trendProvider = provider
	s.trendKeywords = keywords
}

// Rebuild recomputes the whole feature table from the transaction log and
// replaces the stored rows. Returns the number of customers written.
func (s *FeatureService) Rebuild(ctx context.Context) (int, error) {
	ctx, span := s.tracer.Start(ctx, "features.rebuild")
	defer span.End()

	logger := observability.LoggerFromContext(ctx)

	txs, err := s.transactions.ListCleaned(ctx)
	if err != nil {
		return 0, err
	}

	features, err := analytics.BuildCustomerFeatures(txs)
	if err != nil {
		return 0, err
	}

	customerIDs := make([]string, len(features))
	for i, f := range features {
		customerIDs[i] = f.CustomerID
	}

	trendTable := s.fetchTrendFeatures(ctx, customerIDs, txs)
	countryCodes := encodeCountries(features)

	rows := make([]entities.FeatureVector, len(features))
	for i, f := range features {
		rows[i] = buildVector(f, countryCodes, trendTable)
	}

	if err := s.features.ReplaceAll(ctx, rows); err != nil {
		return 0, err
	}

	logger.Info().
		Int("transactions", len(txs)).
		Int("customers", len(rows)).
		Int("trend_columns", len(trendTable.Columns)).
		Msg("feature table rebuilt")

	return len(rows), nil
}

// GetFeature returns one customer's stored feature row. Accepts display
// identifiers with a "CUST-" prefix.
func (s *FeatureService) GetFeature(ctx context.Context, customerID string) (*entities.FeatureVector, error) {
	return s.features.GetByID(ctx, NormalizeCustomerID(customerID))
}

// NormalizeCustomerID strips the presentation prefix and surrounding
// whitespace from a customer identifier.
func NormalizeCustomerID(id string) string {
	return strings.TrimPrefix(strings.TrimSpace(id), "CUST-")
}

// LabelStored computes training-time loyalty labels over the stored
// feature table. The thresholds come from the current population, so the
// result is only meaningful for a full retraining pass.
func (s *FeatureService) LabelStored(ctx context.Context, criteria analytics.LoyaltyCriteria) (*analytics.LabelResult, error) {
	var rfm []entities.CustomerRFM
	offset := 0
	for {
		page, err := s.features.List(ctx, batchPageSize, offset)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		for _, row := range page {
			rfm = append(rfm, row.RFM())
		}
		offset += len(page)
	}

	return analytics.LabelLoyal(rfm, criteria)
}

// fetchTrendFeatures pulls the monthly trend table covering the
// transaction window and merges it per customer. Any provider failure or
// empty table degrades to an empty result rather than failing the rebuild.
func (s *FeatureService) fetchTrendFeatures(ctx context.Context, customerIDs []string, txs []entities.Transaction) analytics.TrendFeatureTable {
	if s.trendProvider == nil || len(s.trendKeywords) == 0 {
		return analytics.TrendFeatureTable{}
	}

	logger := observability.LoggerFromContext(ctx)
	fromMonth, toMonth := monthRange(txs)

	trends, err := s.trendProvider.MonthlyInterest(ctx, s.trendKeywords, fromMonth, toMonth)
	if err != nil {
		logger.Warn().Err(err).Msg("trend source unavailable, building features without trend columns")
		return analytics.TrendFeatureTable{}
	}

	return analytics.MergeTrendFeatures(customerIDs, trends, txs)
}

func monthRange(txs []entities.Transaction) (string, string) {
	from, to := "", ""
	for _, tx := range txs {
		ym := tx.YearMonth()
		if from == "" || ym < from {
			from = ym
		}
		if ym > to {
			to = ym
		}
	}
	return from, to
}

// encodeCountries assigns each distinct country a stable integer code by
// alphabetical order.
func encodeCountries(features []entities.CustomerFeatures) map[string]int {
	seen := make(map[string]struct{}, len(features))
	for _, f := range features {
		seen[f.Country] = struct{}{}
	}

	countries := make([]string, 0, len(seen))
	for c := range seen {
		countries = append(countries, c)
	}
	sort.Strings(countries)

	codes := make(map[string]int, len(countries))
	for i, c := range countries {
		codes[c] = i
	}
	return codes
}

func buildVector(f entities.CustomerFeatures, countryCodes map[string]int, trendTable analytics.TrendFeatureTable) entities.FeatureVector {
	vector := entities.FeatureVector{
		CustomerID:       f.CustomerID,
		Recency:          f.Recency,
		Frequency:        f.Frequency,
		Monetary:         f.Monetary,
		TotalQuantity:    f.TotalQuantity,
		AvgQuantity:      f.AvgQuantity,
		AvgUnitPrice:     f.AvgUnitPrice,
		AvgRevenue:       f.AvgRevenue,
		UniqueProducts:   f.UniqueProducts,
		CustomerLifespan: f.CustomerLifespan,
		Country:          f.Country,
		CountryCode:      countryCodes[f.Country],
	}

	if trendTable.Empty() {
		return vector
	}

	vector.TrendAggregates = make(map[string]float64, len(trendTable.Columns))
	row := trendTable.Rows[f.CustomerID]
	for _, col := range trendTable.Columns {
		v := row[col]
		// A column with zero coverage anywhere stays NaN after imputation;
		// the model-ready row zero-fills that residue.
		if math.IsNaN(v) {
			v = 0
		}
		vector.TrendAggregates[col] = v
	}
	return vector
}
