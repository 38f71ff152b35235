package analytics

import (
	"sort"
	"time"

	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/entities"
	apperrors "github.com/magdamonroy1824/tfm-mm-ecommerce/pkg/errors"
)

// ReferenceDate returns the fixed anchor for Recency: one day after the
// latest invoice date in the batch. It must be computed once per batch and
// held constant across every customer, otherwise Recency values are not
// comparable.
func ReferenceDate(txs []entities.Transaction) time.Time {
	var latest time.Time
	for _, tx := range txs {
		if tx.InvoiceDate.After(latest) {
			latest = tx.InvoiceDate
		}
	}
	return latest.AddDate(0, 0, 1)
}

// AggregateRFM rolls the cleaned transaction table up to one RFM row per
// customer: Recency in whole days against the batch reference date,
// Frequency as the count of distinct invoices, Monetary as summed revenue.
// Rows come back sorted by customer id; no customer is dropped or
// duplicated.
func AggregateRFM(txs []entities.Transaction) ([]entities.CustomerRFM, error) {
	if len(txs) == 0 {
		return nil, apperrors.NewMissingDataError("transaction table is empty", nil)
	}

	ref := ReferenceDate(txs)

	type group struct {
		lastPurchase time.Time
		invoices     map[string]struct{}
		monetary     float64
	}
	groups := make(map[string]*group)

	for _, tx := range txs {
		g, ok := groups[tx.CustomerID]
		if !ok {
			g = &group{invoices: make(map[string]struct{})}
			groups[tx.CustomerID] = g
		}
		if tx.InvoiceDate.After(g.lastPurchase) {
			g.lastPurchase = tx.InvoiceDate
		}
		g.invoices[tx.InvoiceNo] = struct{}{}
		g.monetary += tx.Revenue()
	}

	rows := make([]entities.CustomerRFM, 0, len(groups))
	for id, g := range groups {
		rows = append(rows, entities.CustomerRFM{
			CustomerID: id,
			Recency:    daysBetween(g.lastPurchase, ref),
			Frequency:  len(g.invoices),
			Monetary:   g.monetary,
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].CustomerID < rows[j].CustomerID })
	return rows, nil
}

// BuildCustomerFeatures computes the extended per-customer aggregates on
// top of RFM: quantity and revenue statistics, unit price statistics,
// distinct product count, purchase window and modal country. Single
// transaction customers carry NaN in the Std* fields and a zero lifespan.
func BuildCustomerFeatures(txs []entities.Transaction) ([]entities.CustomerFeatures, error) {
	rfm, err := AggregateRFM(txs)
	if err != nil {
		return nil, err
	}
	rfmByID := make(map[string]entities.CustomerRFM, len(rfm))
	for _, r := range rfm {
		rfmByID[r.CustomerID] = r
	}

	type group struct {
		quantities []float64
		unitPrices []float64
		revenues   []float64
		products   map[string]struct{}
		countries  []string
		first      time.Time
		last       time.Time
	}
	groups := make(map[string]*group)

	for _, tx := range txs {
		g, ok := groups[tx.CustomerID]
		if !ok {
			g = &group{
				products: make(map[string]struct{}),
				first:    tx.InvoiceDate,
				last:     tx.InvoiceDate,
			}
			groups[tx.CustomerID] = g
		}
		g.quantities = append(g.quantities, float64(tx.Quantity))
		g.unitPrices = append(g.unitPrices, tx.UnitPrice)
		g.revenues = append(g.revenues, tx.Revenue())
		g.products[tx.StockCode] = struct{}{}
		g.countries = append(g.countries, tx.Country)
		if tx.InvoiceDate.Before(g.first) {
			g.first = tx.InvoiceDate
		}
		if tx.InvoiceDate.After(g.last) {
			g.last = tx.InvoiceDate
		}
	}

	rows := make([]entities.CustomerFeatures, 0, len(groups))
	for id, g := range groups {
		totalQty := 0.0
		for _, q := range g.quantities {
			totalQty += q
		}
		totalRevenue := 0.0
		for _, r := range g.revenues {
			totalRevenue += r
		}

		rows = append(rows, entities.CustomerFeatures{
			CustomerRFM:      rfmByID[id],
			TotalQuantity:    int(totalQty),
			AvgQuantity:      Mean(g.quantities),
			StdQuantity:      SampleStd(g.quantities),
			AvgUnitPrice:     Mean(g.unitPrices),
			StdUnitPrice:     SampleStd(g.unitPrices),
			TotalRevenue:     totalRevenue,
			AvgRevenue:       Mean(g.revenues),
			StdRevenue:       SampleStd(g.revenues),
			UniqueProducts:   len(g.products),
			FirstPurchase:    g.first,
			LastPurchase:     g.last,
			Country:          Mode(g.countries, "Unknown"),
			CustomerLifespan: daysBetween(g.first, g.last),
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].CustomerID < rows[j].CustomerID })
	return rows, nil
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
