package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/entities"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/providers"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/repositories"
)

// CachedFeatureAdapter wraps a FeatureRepository with read-through caching.
// Only the stable read paths are cached; Sample stays uncached because its
// whole point is a fresh random draw.
type CachedFeatureAdapter struct {
	adapter repositories.FeatureRepository
	cache   providers.CacheProvider
}

// NewCachedFeatureAdapter creates a new cached feature adapter
func NewCachedFeatureAdapter(adapter repositories.FeatureRepository, cache providers.CacheProvider) repositories.FeatureRepository {
	return &CachedFeatureAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Cache TTLs (in seconds)
const (
	featureByIDTTL  = 300 // 5 minutes for single customer rows
	featureListTTL  = 180 // 3 minutes for ranked lists
	featureBatchTTL = 120 // 2 minutes for the full id listing
)

func featureCacheKey(customerID string) string {
	return fmt.Sprintf("feature:%s", customerID)
}

func topCustomersCacheKey(n int) string {
	return fmt.Sprintf("features:top:%d", n)
}

func atRiskCacheKey(n int) string {
	return fmt.Sprintf("features:atrisk:%d", n)
}

const featureIDsCacheKey = "features:ids"

// ReplaceAll delegates to the underlying repository and invalidates the
// derived list caches. Per-customer keys are left to expire on TTL.
func (a *CachedFeatureAdapter) ReplaceAll(ctx context.Context, rows []entities.FeatureVector) error {
	if err := a.adapter.ReplaceAll(ctx, rows); err != nil {
		return err
	}
	if err := a.cache.Delete(ctx, featureIDsCacheKey); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate feature id cache")
	}
	return nil
}

// GetByID retrieves one customer's feature row with caching
func (a *CachedFeatureAdapter) GetByID(ctx context.Context, customerID string) (*entities.FeatureVector, error) {
	cacheKey := featureCacheKey(customerID)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var feature entities.FeatureVector
		if err := json.Unmarshal(cached, &feature); err == nil {
			return &feature, nil
		}
		log.Warn().Str("customer_id", customerID).Err(err).Msg("failed to unmarshal cached feature")
	}

	feature, err := a.adapter.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	a.storeAsync(cacheKey, feature, featureByIDTTL)
	return feature, nil
}

// List passes through uncached; it is a paging primitive for batch runs
// whose callers always want the current table.
func (a *CachedFeatureAdapter) List(ctx context.Context, limit, offset int) ([]entities.FeatureVector, error) {
	return a.adapter.List(ctx, limit, offset)
}

// ListIDs returns every stored customer id with caching
func (a *CachedFeatureAdapter) ListIDs(ctx context.Context) ([]string, error) {
	if cached, err := a.cache.Get(ctx, featureIDsCacheKey); err == nil {
		var ids []string
		if err := json.Unmarshal(cached, &ids); err == nil {
			return ids, nil
		}
	}

	ids, err := a.adapter.ListIDs(ctx)
	if err != nil {
		return nil, err
	}

	a.storeAsync(featureIDsCacheKey, ids, featureBatchTTL)
	return ids, nil
}

// TopByMonetary returns the n highest-value customers with caching
func (a *CachedFeatureAdapter) TopByMonetary(ctx context.Context, n int) ([]entities.FeatureVector, error) {
	return a.cachedList(ctx, topCustomersCacheKey(n), func() ([]entities.FeatureVector, error) {
		return a.adapter.TopByMonetary(ctx, n)
	})
}

// AtRisk returns up to n at-risk customers with caching
func (a *CachedFeatureAdapter) AtRisk(ctx context.Context, n int) ([]entities.FeatureVector, error) {
	return a.cachedList(ctx, atRiskCacheKey(n), func() ([]entities.FeatureVector, error) {
		return a.adapter.AtRisk(ctx, n)
	})
}

// Sample returns fresh random rows, bypassing the cache
func (a *CachedFeatureAdapter) Sample(ctx context.Context, n int) ([]entities.FeatureVector, error) {
	return a.adapter.Sample(ctx, n)
}

func (a *CachedFeatureAdapter) cachedList(ctx context.Context, cacheKey string, fetch func() ([]entities.FeatureVector, error)) ([]entities.FeatureVector, error) {
	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var features []entities.FeatureVector
		if err := json.Unmarshal(cached, &features); err == nil {
			return features, nil
		}
	}

	features, err := fetch()
	if err != nil {
		return nil, err
	}

	a.storeAsync(cacheKey, features, featureListTTL)
	return features, nil
}

// storeAsync updates the cache off the request path
func (a *CachedFeatureAdapter) storeAsync(cacheKey string, value interface{}, ttlSeconds int) {
	go func() {
		bgCtx := context.Background()
		data, err := json.Marshal(value)
		if err != nil {
			return
		}
		if err := a.cache.Set(bgCtx, cacheKey, data, ttlSeconds); err != nil {
			log.Warn().Str("key", cacheKey).Err(err).Msg("failed to write cache")
		}
	}()
}
