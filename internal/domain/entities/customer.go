package entities

import (
	"time"
)

// CustomerRFM holds the three core behavioral metrics for one customer,
// derived once per aggregation batch and immutable afterward.
type CustomerRFM struct {
	CustomerID string  `json:"customer_id" db:"customer_id"`
	Recency    int     `json:"recency" db:"recency"`
	Frequency  int     `json:"frequency" db:"frequency"`
	Monetary   float64 `json:"monetary" db:"monetary"`
}

// CustomerFeatures extends RFM with the secondary per-customer aggregates.
// Std* fields are NaN when the customer has fewer than two transactions;
// consumers must treat NaN as "insufficient data", not zero.
type CustomerFeatures struct {
	CustomerRFM

	TotalQuantity    int       `json:"total_quantity" db:"total_quantity"`
	AvgQuantity      float64   `json:"avg_quantity" db:"avg_quantity"`
	StdQuantity      float64   `json:"std_quantity" db:"std_quantity"`
	AvgUnitPrice     float64   `json:"avg_unit_price" db:"avg_unit_price"`
	StdUnitPrice     float64   `json:"std_unit_price" db:"std_unit_price"`
	TotalRevenue     float64   `json:"total_revenue" db:"total_revenue"`
	AvgRevenue       float64   `json:"avg_revenue" db:"avg_revenue"`
	StdRevenue       float64   `json:"std_revenue" db:"std_revenue"`
	UniqueProducts   int       `json:"unique_products" db:"unique_products"`
	FirstPurchase    time.Time `json:"first_purchase" db:"first_purchase"`
	LastPurchase     time.Time `json:"last_purchase" db:"last_purchase"`
	Country          string    `json:"country" db:"country"`
	CustomerLifespan int       `json:"customer_lifespan" db:"customer_lifespan"`
}

// FeatureVector is the flat, model-ready row per customer consumed by the
// external classifier and exported to the presentation layer. Trend
// aggregates carry one entry per derived trend column (avg_/std_/max_
// prefixed keyword).
type FeatureVector struct {
	CustomerID       string             `json:"customer_id" db:"customer_id"`
	Recency          int                `json:"recency" db:"recency"`
	Frequency        int                `json:"frequency" db:"frequency"`
	Monetary         float64            `json:"monetary" db:"monetary"`
	TotalQuantity    int                `json:"total_quantity" db:"total_quantity"`
	AvgQuantity      float64            `json:"avg_quantity" db:"avg_quantity"`
	AvgUnitPrice     float64            `json:"avg_unit_price" db:"avg_unit_price"`
	AvgRevenue       float64            `json:"avg_revenue" db:"avg_revenue"`
	UniqueProducts   int                `json:"unique_products" db:"unique_products"`
	CustomerLifespan int                `json:"customer_lifespan" db:"customer_lifespan"`
	Country          string             `json:"country" db:"country"`
	CountryCode      int                `json:"country_code" db:"country_code"`
	TrendAggregates  map[string]float64 `json:"trend_aggregates,omitempty" db:"-"`
}

// RFM returns the core metrics of the feature vector.
func (f FeatureVector) RFM() CustomerRFM {
	return CustomerRFM{
		CustomerID: f.CustomerID,
		Recency:    f.Recency,
		Frequency:  f.Frequency,
		Monetary:   f.Monetary,
	}
}
