package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/entities"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/repositories"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/infrastructure/clients/postgres"
	apperrors "github.com/magdamonroy1824/tfm-mm-ecommerce/pkg/errors"
)

const (
	featuresTable = "customer_features"

	// insertChunkSize bounds the parameter count of a single insert.
	insertChunkSize = 500
)

var featureColumns = []interface{}{
	"customer_id", "recency", "frequency", "monetary",
	"total_quantity", "avg_quantity", "avg_unit_price", "avg_revenue",
	"unique_products", "customer_lifespan", "country", "country_code",
	"trend_aggregates",
}

// FeatureAdapter implements FeatureRepository over the customer_features
// table. Trend aggregates are stored as a JSONB document since the column
// set varies with the configured keywords.
type FeatureAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewFeatureAdapter creates a new feature adapter
func NewFeatureAdapter(client *postgres.Client) repositories.FeatureRepository {
	return &FeatureAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// ReplaceAll replaces the stored feature table with the given rows
func (a *FeatureAdapter) ReplaceAll(ctx context.Context, rows []entities.FeatureVector) error {
	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin feature replace", err)
	}
	defer tx.Rollback()

	deleteSQL, deleteArgs, err := a.db.Delete(featuresTable).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}
	if _, err := tx.ExecContext(ctx, deleteSQL, deleteArgs...); err != nil {
		return apperrors.NewInternalError("failed to clear feature table", err)
	}

	for start := 0; start < len(rows); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(rows) {
			end = len(rows)
		}

		records := make([]interface{}, 0, end-start)
		for _, row := range rows[start:end] {
			record, err := featureRecord(row)
			if err != nil {
				return err
			}
			records = append(records, record)
		}

		insertSQL, insertArgs, err := a.db.Insert(featuresTable).Rows(records...).ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build insert query", err)
		}
		if _, err := tx.ExecContext(ctx, insertSQL, insertArgs...); err != nil {
			return apperrors.NewInternalError("failed to insert feature rows", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit feature replace", err)
	}
	return nil
}

// GetByID retrieves one customer's feature row
func (a *FeatureAdapter) GetByID(ctx context.Context, customerID string) (*entities.FeatureVector, error) {
	query, args, err := a.db.From(featuresTable).
		Select(featureColumns...).
		Where(goqu.C("customer_id").Eq(customerID)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build feature query", err)
	}

	row := a.client.DB().QueryRowContext(ctx, query, args...)
	feature, err := scanFeature(row.Scan)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("customer %s not found", customerID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get feature row", err)
	}
	return feature, nil
}

// List returns feature rows ordered by customer id
func (a *FeatureAdapter) List(ctx context.Context, limit, offset int) ([]entities.FeatureVector, error) {
	query, args, err := a.db.From(featuresTable).
		Select(featureColumns...).
		Order(goqu.C("customer_id").Asc()).
		Limit(uint(limit)).
		Offset(uint(offset)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	return a.queryFeatures(ctx, query, args)
}

// ListIDs returns every stored customer id
func (a *FeatureAdapter) ListIDs(ctx context.Context) ([]string, error) {
	query, args, err := a.db.From(featuresTable).
		Select("customer_id").
		Order(goqu.C("customer_id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build ids query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list customer ids", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewInternalError("failed to scan customer id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read customer ids", err)
	}
	return ids, nil
}

// TopByMonetary returns the n highest-value customers
func (a *FeatureAdapter) TopByMonetary(ctx context.Context, n int) ([]entities.FeatureVector, error) {
	query, args, err := a.db.From(featuresTable).
		Select(featureColumns...).
		Order(goqu.C("monetary").Desc()).
		Limit(uint(n)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build top query", err)
	}

	return a.queryFeatures(ctx, query, args)
}

// AtRisk returns up to n customers inactive for more than 90 days whose
// spend sits above the population median, highest spend first.
func (a *FeatureAdapter) AtRisk(ctx context.Context, n int) ([]entities.FeatureVector, error) {
	median := a.db.From(featuresTable).
		Select(goqu.L("percentile_cont(0.5) WITHIN GROUP (ORDER BY monetary)"))

	query, args, err := a.db.From(featuresTable).
		Select(featureColumns...).
		Where(
			goqu.C("recency").Gt(90),
			goqu.C("monetary").Gt(median),
		).
		Order(goqu.C("monetary").Desc()).
		Limit(uint(n)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build at-risk query", err)
	}

	return a.queryFeatures(ctx, query, args)
}

// Sample returns up to n randomly chosen feature rows
func (a *FeatureAdapter) Sample(ctx context.Context, n int) ([]entities.FeatureVector, error) {
	query, args, err := a.db.From(featuresTable).
		Select(featureColumns...).
		Order(goqu.L("random()").Asc()).
		Limit(uint(n)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build sample query", err)
	}

	return a.queryFeatures(ctx, query, args)
}

func (a *FeatureAdapter) queryFeatures(ctx context.Context, query string, args []interface{}) ([]entities.FeatureVector, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query feature rows", err)
	}
	defer rows.Close()

	var features []entities.FeatureVector
	for rows.Next() {
		feature, err := scanFeature(rows.Scan)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan feature row", err)
		}
		features = append(features, *feature)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read feature rows", err)
	}
	return features, nil
}

func featureRecord(row entities.FeatureVector) (goqu.Record, error) {
	trends, err := json.Marshal(row.TrendAggregates)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode trend aggregates", err)
	}

	return goqu.Record{
		"customer_id":       row.CustomerID,
		"recency":           row.Recency,
		"frequency":         row.Frequency,
		"monetary":          row.Monetary,
		"total_quantity":    row.TotalQuantity,
		"avg_quantity":      row.AvgQuantity,
		"avg_unit_price":    row.AvgUnitPrice,
		"avg_revenue":       row.AvgRevenue,
		"unique_products":   row.UniqueProducts,
		"customer_lifespan": row.CustomerLifespan,
		"country":           row.Country,
		"country_code":      row.CountryCode,
		"trend_aggregates":  trends,
	}, nil
}

func scanFeature(scan func(dest ...interface{}) error) (*entities.FeatureVector, error) {
	feature := &entities.FeatureVector{}
	var trends []byte

	err := scan(
		&feature.CustomerID,
		&feature.Recency,
		&feature.Frequency,
		&feature.Monetary,
		&feature.TotalQuantity,
		&feature.AvgQuantity,
		&feature.AvgUnitPrice,
		&feature.AvgRevenue,
		&feature.UniqueProducts,
		&feature.CustomerLifespan,
		&feature.Country,
		&feature.CountryCode,
		&trends,
	)
	if err != nil {
		return nil, err
	}

	if len(trends) > 0 {
		if err := json.Unmarshal(trends, &feature.TrendAggregates); err != nil {
			return nil, fmt.Errorf("failed to decode trend aggregates: %w", err)
		}
	}
	return feature, nil
}
