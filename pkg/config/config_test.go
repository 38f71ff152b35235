package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_LoyaltyCriteria(t *testing.T) {
	// Setup environment variables
	os.Setenv("LOYALTY_FREQUENCY_THRESHOLD", "5")
	os.Setenv("LOYALTY_MONETARY_PERCENTILE", "0.5")
	defer func() {
		os.Unsetenv("LOYALTY_FREQUENCY_THRESHOLD")
		os.Unsetenv("LOYALTY_MONETARY_PERCENTILE")
	}()

	// Load config
	cfg, err := Load()
	assert.NoError(t, err)

	// Verify loyalty criteria
	assert.Equal(t, 5, cfg.Loyalty.FrequencyThreshold)
	assert.Equal(t, 0.5, cfg.Loyalty.MonetaryPercentile)
	assert.Equal(t, 0.75, cfg.Loyalty.RecencyPercentile)
}

func TestLoad_Defaults(t *testing.T) {
	// Ensure env vars are cleared
	os.Unsetenv("LOYALTY_FREQUENCY_THRESHOLD")
	os.Unsetenv("LOYALTY_MONETARY_PERCENTILE")
	os.Unsetenv("TRENDS_KEYWORDS")

	cfg, err := Load()
	assert.NoError(t, err)

	// Verify defaults
	assert.Equal(t, 3, cfg.Loyalty.FrequencyThreshold)
	assert.Equal(t, 0.25, cfg.Loyalty.MonetaryPercentile)
	assert.Equal(t, 0.75, cfg.Loyalty.RecencyPercentile)
	assert.Equal(t, defaultTrendKeywords, cfg.Trends.Keywords)
	assert.Equal(t, "GB", cfg.Trends.Geo)
}

func TestLoad_TrendKeywordsFromEnv(t *testing.T) {
	os.Setenv("TRENDS_KEYWORDS", "garden furniture, candles ,")
	defer os.Unsetenv("TRENDS_KEYWORDS")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, []string{"garden furniture", "candles"}, cfg.Trends.Keywords)
}
