package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/analytics"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/entities"
	apperrors "github.com/magdamonroy1824/tfm-mm-ecommerce/pkg/errors"
)

// stubTransactionRepo serves a fixed transaction log.
type stubTransactionRepo struct {
	txs []entities.Transaction
}

func (s *stubTransactionRepo) ListCleaned(ctx context.Context) ([]entities.Transaction, error) {
	return s.txs, nil
}

func (s *stubTransactionRepo) ListByCustomer(ctx context.Context, customerID string) ([]entities.Transaction, error) {
	var out []entities.Transaction
	for _, tx := range s.txs {
		if tx.CustomerID == customerID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *stubTransactionRepo) CountCleaned(ctx context.Context) (int, error) {
	return len(s.txs), nil
}

// stubTrendProvider returns fixed rows or an error.
type stubTrendProvider struct {
	rows []entities.MonthlyTrend
	err  error
}

func (s *stubTrendProvider) MonthlyInterest(ctx context.Context, keywords []string, fromMonth, toMonth string) ([]entities.MonthlyTrend, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleTransactions() []entities.Transaction {
	return []entities.Transaction{
		{CustomerID: "12583", InvoiceNo: "536370", StockCode: "22728", InvoiceDate: day(2011, 10, 3), Quantity: 4, UnitPrice: 10, Country: "France"},
		{CustomerID: "12583", InvoiceNo: "541432", StockCode: "22727", InvoiceDate: day(2011, 11, 1), Quantity: 2, UnitPrice: 25, Country: "France"},
		{CustomerID: "14646", InvoiceNo: "537052", StockCode: "85123A", InvoiceDate: day(2011, 12, 5), Quantity: 10, UnitPrice: 3, Country: "Germany"},
	}
}

func TestRebuildWritesFeatureRows(t *testing.T) {
	txRepo := &stubTransactionRepo{txs: sampleTransactions()}
	featRepo := &stubFeatureRepo{}
	s := NewFeatureService(txRepo, featRepo)

	count, err := s.Rebuild(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, featRepo.replaced, 2)

	// Rows come back sorted by customer id.
	first, second := featRepo.replaced[0], featRepo.replaced[1]
	assert.Equal(t, "12583", first.CustomerID)
	assert.Equal(t, "14646", second.CustomerID)

	// Reference date is 2011-12-06, one day after the latest invoice.
	assert.Equal(t, 35, first.Recency)
	assert.Equal(t, 2, first.Frequency)
	assert.Equal(t, 90.0, first.Monetary)
	assert.Equal(t, 1, second.Frequency)
	assert.Equal(t, 30.0, second.Monetary)

	// Countries are label encoded alphabetically.
	assert.Equal(t, "France", first.Country)
	assert.Equal(t, 0, first.CountryCode)
	assert.Equal(t, "Germany", second.Country)
	assert.Equal(t, 1, second.CountryCode)

	// No trend provider configured, so no trend aggregates.
	assert.Nil(t, first.TrendAggregates)
}

func TestRebuildWithTrendProvider(t *testing.T) {
	txRepo := &stubTransactionRepo{txs: sampleTransactions()}
	featRepo := &stubFeatureRepo{}
	s := NewFeatureService(txRepo, featRepo)
	s.SetTrendProvider(&stubTrendProvider{rows: []entities.MonthlyTrend{
		{YearMonth: "2011-10", Values: map[string]float64{"online shopping": 40}},
		{YearMonth: "2011-11", Values: map[string]float64{"online shopping": 60}},
		{YearMonth: "2011-12", Values: map[string]float64{"online shopping": 90}},
	}}, []string{"online shopping"})

	_, err := s.Rebuild(context.Background())
	require.NoError(t, err)
	require.Len(t, featRepo.replaced, 2)

	first := featRepo.replaced[0]
	require.NotNil(t, first.TrendAggregates)
	assert.Equal(t, 50.0, first.TrendAggregates["avg_trends_online_shopping"])
	assert.Equal(t, 60.0, first.TrendAggregates["max_trends_online_shopping"])

	// A single active month has no sample std; the column mean fills it
	// and any residue is zeroed, never NaN.
	second := featRepo.replaced[1]
	for col, v := range second.TrendAggregates {
		assert.False(t, v != v, "column %s is NaN", col)
	}
}

func TestRebuildDegradesWhenTrendSourceFails(t *testing.T) {
	txRepo := &stubTransactionRepo{txs: sampleTransactions()}
	featRepo := &stubFeatureRepo{}
	s := NewFeatureService(txRepo, featRepo)
	s.SetTrendProvider(&stubTrendProvider{err: apperrors.NewExternalError("trend source down", nil)}, []string{"online shopping"})

	count, err := s.Rebuild(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Nil(t, featRepo.replaced[0].TrendAggregates)
}

func TestRebuildEmptyTransactionLog(t *testing.T) {
	s := NewFeatureService(&stubTransactionRepo{}, &stubFeatureRepo{})

	_, err := s.Rebuild(context.Background())
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeMissingData, appErr.Type)
}

func TestGetFeatureNormalizesPrefix(t *testing.T) {
	featRepo := &stubFeatureRepo{rows: []entities.FeatureVector{{CustomerID: "12583"}}}
	s := NewFeatureService(&stubTransactionRepo{}, featRepo)

	feature, err := s.GetFeature(context.Background(), "CUST-12583")
	require.NoError(t, err)
	assert.Equal(t, "12583", feature.CustomerID)
}

func TestNormalizeCustomerID(t *testing.T) {
	assert.Equal(t, "12583", NormalizeCustomerID("CUST-12583"))
	assert.Equal(t, "12583", NormalizeCustomerID("  12583 "))
	assert.Equal(t, "12583", NormalizeCustomerID("12583"))
}

func TestLabelStored(t *testing.T) {
	featRepo := &stubFeatureRepo{rows: []entities.FeatureVector{
		{CustomerID: "1", Recency: 10, Frequency: 8, Monetary: 900},
		{CustomerID: "2", Recency: 50, Frequency: 4, Monetary: 400},
		{CustomerID: "3", Recency: 300, Frequency: 1, Monetary: 50},
		{CustomerID: "4", Recency: 30, Frequency: 5, Monetary: 700},
	}}
	s := NewFeatureService(&stubTransactionRepo{}, featRepo)

	labels, err := s.LabelStored(context.Background(), analytics.DefaultLoyaltyCriteria())
	require.NoError(t, err)
	require.Len(t, labels.Loyal, 4)

	assert.True(t, labels.Loyal["1"])
	assert.True(t, labels.Loyal["4"])
	assert.False(t, labels.Loyal["3"], "single-purchase dormant customer")
}
