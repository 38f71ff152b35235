package database

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/entities"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/repositories"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/infrastructure/clients/postgres"
	apperrors "github.com/magdamonroy1824/tfm-mm-ecommerce/pkg/errors"
)

const transactionsTable = "transactions"

// transactionColumns is the canonical column set the pipeline depends on.
var transactionColumns = []interface{}{
	"customer_id", "invoice_no", "stock_code", "invoice_date",
	"quantity", "unit_price", "country",
}

// TransactionAdapter implements TransactionRepository over the raw retail
// transaction table. Cleaning filters are pushed into SQL so downstream
// aggregation never sees cancelled or malformed rows.
type TransactionAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewTransactionAdapter creates a new transaction adapter
func NewTransactionAdapter(client *postgres.Client) repositories.TransactionRepository {
	return &TransactionAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// cleanedDataset applies the loader contract: positive quantity and unit
// price, a present customer id, and no cancelled invoices (invoice numbers
// starting with "C").
func (a *TransactionAdapter) cleanedDataset() *goqu.SelectDataset {
	return a.db.From(transactionsTable).Where(
		goqu.C("quantity").Gt(0),
		goqu.C("unit_price").Gt(0),
		goqu.C("customer_id").IsNotNull(),
		goqu.C("customer_id").Neq(""),
		goqu.C("invoice_no").NotLike("C%"),
	)
}

// ListCleaned returns every cleaned transaction row
func (a *TransactionAdapter) ListCleaned(ctx context.Context) ([]entities.Transaction, error) {
	query, args, err := a.cleanedDataset().
		Select(transactionColumns...).
		Order(goqu.C("customer_id").Asc(), goqu.C("invoice_date").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build transactions query", err)
	}

	return a.queryTransactions(ctx, query, args)
}

// ListByCustomer returns the cleaned rows for one customer
func (a *TransactionAdapter) ListByCustomer(ctx context.Context, customerID string) ([]entities.Transaction, error) {
	query, args, err := a.cleanedDataset().
		Select(transactionColumns...).
		Where(goqu.C("customer_id").Eq(customerID)).
		Order(goqu.C("invoice_date").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build customer transactions query", err)
	}

	txs, err := a.queryTransactions(ctx, query, args)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no transactions for customer %s", customerID))
	}
	return txs, nil
}

// CountCleaned returns the number of cleaned rows
func (a *TransactionAdapter) CountCleaned(ctx context.Context) (int, error) {
	query, args, err := a.cleanedDataset().
		Select(goqu.COUNT(goqu.Star())).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build count query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, wrapTransactionError("failed to count transactions", err)
	}
	return count, nil
}

func (a *TransactionAdapter) queryTransactions(ctx context.Context, query string, args []interface{}) ([]entities.Transaction, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapTransactionError("failed to query transactions", err)
	}
	defer rows.Close()

	var txs []entities.Transaction
	for rows.Next() {
		var tx entities.Transaction
		err := rows.Scan(
			&tx.CustomerID,
			&tx.InvoiceNo,
			&tx.StockCode,
			&tx.InvoiceDate,
			&tx.Quantity,
			&tx.UnitPrice,
			&tx.Country,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan transaction", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read transactions", err)
	}

	return txs, nil
}

// wrapTransactionError maps a missing source column onto the MISSING_DATA
// taxonomy so callers can distinguish schema drift from transient failures.
func wrapTransactionError(msg string, err error) error {
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "42703" {
		return apperrors.NewMissingDataError("transaction table is missing a required column", err)
	}
	return apperrors.NewInternalError(msg, err)
}
