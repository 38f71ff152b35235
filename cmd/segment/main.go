package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/adapters/database"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/analytics"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/adapters/providers/predictor"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/adapters/providers/trends"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/application/services"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/providers"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/infrastructure/clients/postgres"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/infrastructure/observability"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/pkg/config"
)

// runReport is the JSON document printed after a batch run.
type runReport struct {
	Summary *services.BatchSummary `json:"summary"`
	Labels  *labelReport           `json:"training_labels,omitempty"`
}

type labelReport struct {
	Loyal             int     `json:"loyal"`
	Total             int     `json:"total"`
	MonetaryThreshold float64 `json:"monetary_threshold"`
	RecencyThreshold  float64 `json:"recency_threshold"`
}

func main() {
	skipRebuild := flag.Bool("skip-rebuild", false, "score the stored feature table without recomputing it")
	withLabels := flag.Bool("labels", false, "include the training label distribution in the report")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Environment)
	logger := observability.ComponentLogger("segment")

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pgClient.Close()

	transactionAdapter := database.NewTransactionAdapter(pgClient)
	featureAdapter := database.NewFeatureAdapter(pgClient)

	var loyaltyPredictor providers.LoyaltyPredictor
	switch cfg.Predictor.Provider {
	case "http":
		loyaltyPredictor = predictor.NewHTTPPredictor(cfg.Predictor.URL, cfg.Predictor.APIKey)
	default:
		loyaltyPredictor = predictor.NewMockPredictor()
	}

	featureService := services.NewFeatureService(transactionAdapter, featureAdapter)
	switch cfg.Trends.Source {
	case "file":
		featureService.SetTrendProvider(trends.NewFileProvider(cfg.Trends.FilePath), cfg.Trends.Keywords)
	case "synthetic":
		featureService.SetTrendProvider(trends.NewSyntheticProvider(), cfg.Trends.Keywords)
	}

	insightService := services.NewInsightService(
		featureAdapter,
		loyaltyPredictor,
		services.NewSegmentationService(),
		services.NewRecommendationService(),
	)

	ctx := context.Background()

	if !*skipRebuild {
		txCount, err := transactionAdapter.CountCleaned(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to count transactions")
		}
		logger.Info().Int("transactions", txCount).Msg("starting feature rebuild")

		customers, err := featureService.Rebuild(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("feature rebuild failed")
		}
		logger.Info().Int("customers", customers).Msg("feature table rebuilt")
	}

	summary, err := insightService.RunBatch(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("batch scoring failed")
	}

	report := runReport{Summary: summary}

	if *withLabels {
		labels, err := featureService.LabelStored(ctx, analytics.LoyaltyCriteria{
			FrequencyThreshold: cfg.Loyalty.FrequencyThreshold,
			MonetaryPercentile: cfg.Loyalty.MonetaryPercentile,
			RecencyPercentile:  cfg.Loyalty.RecencyPercentile,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("labeling failed")
		}

		lr := &labelReport{
			Total:             len(labels.Loyal),
			MonetaryThreshold: labels.MonetaryThreshold,
			RecencyThreshold:  labels.RecencyThreshold,
		}
		for _, loyal := range labels.Loyal {
			if loyal {
				lr.Loyal++
			}
		}
		report.Labels = lr
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to encode summary")
	}
	fmt.Println(string(out))
}
