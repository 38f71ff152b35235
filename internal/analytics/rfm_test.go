package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/entities"
	apperrors "github.com/magdamonroy1824/tfm-mm-ecommerce/pkg/errors"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleTransactions() []entities.Transaction {
	return []entities.Transaction{
		{CustomerID: "14646", InvoiceNo: "536365", StockCode: "85123A", InvoiceDate: day(2011, 12, 1), Quantity: 6, UnitPrice: 2.55, Country: "United Kingdom"},
		{CustomerID: "14646", InvoiceNo: "536365", StockCode: "71053", InvoiceDate: day(2011, 12, 1), Quantity: 2, UnitPrice: 3.39, Country: "United Kingdom"},
		{CustomerID: "14646", InvoiceNo: "537021", StockCode: "84406B", InvoiceDate: day(2011, 12, 5), Quantity: 1, UnitPrice: 10.00, Country: "United Kingdom"},
		{CustomerID: "12583", InvoiceNo: "536401", StockCode: "22752", InvoiceDate: day(2011, 11, 1), Quantity: 4, UnitPrice: 7.50, Country: "France"},
	}
}

func TestReferenceDate_OneDayAfterLatestInvoice(t *testing.T) {
	ref := ReferenceDate(sampleTransactions())
	assert.Equal(t, day(2011, 12, 6), ref)
}

func TestAggregateRFM(t *testing.T) {
	rows, err := AggregateRFM(sampleTransactions())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Sorted by customer id.
	assert.Equal(t, "12583", rows[0].CustomerID)
	assert.Equal(t, "14646", rows[1].CustomerID)

	// 12583: one invoice on Nov 1, reference Dec 6.
	assert.Equal(t, 35, rows[0].Recency)
	assert.Equal(t, 1, rows[0].Frequency)
	assert.InDelta(t, 30.0, rows[0].Monetary, 1e-9)

	// 14646: two distinct invoices, last purchase Dec 5.
	assert.Equal(t, 1, rows[1].Recency)
	assert.Equal(t, 2, rows[1].Frequency)
	assert.InDelta(t, 6*2.55+2*3.39+10.00, rows[1].Monetary, 1e-9)
}

func TestAggregateRFM_Bounds(t *testing.T) {
	rows, err := AggregateRFM(sampleTransactions())
	require.NoError(t, err)

	for _, r := range rows {
		assert.GreaterOrEqual(t, r.Recency, 0)
		assert.GreaterOrEqual(t, r.Frequency, 1)
		assert.GreaterOrEqual(t, r.Monetary, 0.0)
	}
}

func TestAggregateRFM_EmptyTable(t *testing.T) {
	_, err := AggregateRFM(nil)
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeMissingData, appErr.Type)
}

func TestBuildCustomerFeatures(t *testing.T) {
	rows, err := BuildCustomerFeatures(sampleTransactions())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	single := rows[0] // 12583, one transaction
	multi := rows[1]  // 14646, three lines

	assert.Equal(t, 4, single.TotalQuantity)
	assert.Equal(t, 0, single.CustomerLifespan)
	assert.Equal(t, "France", single.Country)
	// Insufficient data for a deviation, not zero variance.
	assert.True(t, math.IsNaN(single.StdQuantity))
	assert.True(t, math.IsNaN(single.StdRevenue))

	assert.Equal(t, 9, multi.TotalQuantity)
	assert.Equal(t, 3, multi.UniqueProducts)
	assert.Equal(t, 4, multi.CustomerLifespan)
	assert.Equal(t, "United Kingdom", multi.Country)
	assert.InDelta(t, 3.0, multi.AvgQuantity, 1e-9)
	assert.False(t, math.IsNaN(multi.StdUnitPrice))
	assert.Equal(t, day(2011, 12, 1), multi.FirstPurchase)
	assert.Equal(t, day(2011, 12, 5), multi.LastPurchase)
}

func TestBuildCustomerFeatures_NoCountry(t *testing.T) {
	txs := []entities.Transaction{
		{CustomerID: "17850", InvoiceNo: "536400", StockCode: "22633", InvoiceDate: day(2011, 10, 12), Quantity: 1, UnitPrice: 1.25},
	}

	rows, err := BuildCustomerFeatures(txs)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Unknown", rows[0].Country)
}
