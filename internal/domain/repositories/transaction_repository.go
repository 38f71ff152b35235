package repositories

import (
	"context"

	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/entities"
)

// TransactionRepository defines read access to the cleaned transaction table.
// Implementations enforce the loader contract (positive quantity and unit
// price, non-empty customer id, no cancelled invoices) before rows reach
// the aggregation core.
type TransactionRepository interface {
	// ListCleaned returns every cleaned transaction row
	ListCleaned(ctx context.Context) ([]entities.Transaction, error)

	// ListByCustomer returns the cleaned rows for one customer
	ListByCustomer(ctx context.Context, customerID string) ([]entities.Transaction, error)

	// CountCleaned returns the number of cleaned rows
	CountCleaned(ctx context.Context) (int, error)
}
