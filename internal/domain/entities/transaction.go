package entities

import (
	"time"
)

// Transaction represents a single cleaned transaction line from the retail
// dataset. The loader guarantees Quantity > 0, UnitPrice > 0, a non-empty
// CustomerID and no cancelled invoices; aggregation does not re-validate.
type Transaction struct {
	CustomerID  string    `json:"customer_id" db:"customer_id"`
	InvoiceNo   string    `json:"invoice_no" db:"invoice_no"`
	StockCode   string    `json:"stock_code" db:"stock_code"`
	InvoiceDate time.Time `json:"invoice_date" db:"invoice_date"`
	Quantity    int       `json:"quantity" db:"quantity"`
	UnitPrice   float64   `json:"unit_price" db:"unit_price"`
	Country     string    `json:"country" db:"country"`
}

// Revenue returns the line revenue (quantity x unit price).
func (t Transaction) Revenue() float64 {
	return float64(t.Quantity) * t.UnitPrice
}

// YearMonth returns the calendar month the transaction falls in, formatted
// as "2006-01". Trend signals are joined on this key.
func (t Transaction) YearMonth() string {
	return t.InvoiceDate.Format("2006-01")
}
