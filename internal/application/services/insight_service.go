package services

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/entities"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/providers"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/repositories"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/infrastructure/observability"
)

const batchPageSize = 500

// InsightService composes segmentation and recommendation output into the
// final per-customer insight record.
type InsightService struct {
	features       repositories.FeatureRepository
	predictor      providers.LoyaltyPredictor
	segmentation   *SegmentationService
	recommendation *RecommendationService
	tracer         trace.Tracer
}

// NewInsightService creates a new insight service
func NewInsightService(
	features repositories.FeatureRepository,
	predictor providers.LoyaltyPredictor,
	segmentation *SegmentationService,
	recommendation *RecommendationService,
) *InsightService {
	return &InsightService{
		features:       features,
		predictor:      predictor,
		segmentation:   segmentation,
		recommendation: recommendation,
		tracer:         otel.Tracer("insight-service"),
	}
}

// Compose builds the insight record from RFM and a probability. It has no
// side effects and is referentially transparent: identical inputs always
// produce an identical record. Records are never cached because probability
// may legitimately vary run to run.
func (s *InsightService) Compose(rfm entities.CustomerRFM, probability float64) entities.Insight {
	segment := s.segmentation.Classify(rfm.Recency, rfm.Frequency, rfm.Monetary, probability)
	playbook := s.recommendation.Playbook(segment.Segment)
	valueScore := s.recommendation.ValueScore(rfm, probability)
	budget := s.recommendation.SuggestedBudget(segment.Segment, valueScore)

	// Recency-only risk axis, deliberately independent of the segmentation
	// tiers. The two classifications may disagree and both are reported.
	riskLevel := entities.RiskLow
	riskColor := "#28a745"
	switch {
	case rfm.Recency > 180:
		riskLevel = entities.RiskHigh
		riskColor = "#dc3545"
	case rfm.Recency > 90:
		riskLevel = entities.RiskMedium
		riskColor = "#ffc107"
	}

	actions := make([]string, len(playbook.Actions))
	copy(actions, playbook.Actions)
	next := make([]string, 0, 2)
	for i := 0; i < len(actions) && i < 2; i++ {
		next = append(next, actions[i])
	}

	return entities.Insight{
		CustomerID:       rfm.CustomerID,
		Segment:          segment.Segment,
		SegmentIcon:      segment.Icon,
		SegmentColor:     segment.Color,
		Probability:      probability,
		ValueScore:       valueScore,
		RiskLevel:        riskLevel,
		RiskColor:        riskColor,
		Strategy:         playbook.Strategy,
		Actions:          actions,
		NextActions:      next,
		SuggestedBudget:  budget,
		CampaignPriority: playbook.Priority,
		ExpectedROI:      playbook.ExpectedROI,
	}
}

// ComputeForCustomer produces a fresh insight record for one customer:
// stored features in, external prediction, composition out.
func (s *InsightService) ComputeForCustomer(ctx context.Context, customerID string) (*entities.Insight, error) {
	ctx, span := s.tracer.Start(ctx, "insight.compute")
	defer span.End()

	features, err := s.features.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	probability, err := s.predictor.Predict(ctx, *features)
	if err != nil {
		return nil, err
	}

	insight := s.Compose(features.RFM(), probability)
	return &insight, nil
}

// BatchSummary aggregates one scoring run over the whole customer base.
type BatchSummary struct {
	RunID           string                   `json:"run_id"`
	Customers       int                      `json:"customers"`
	BySegment       map[entities.Segment]int `json:"by_segment"`
	ByRiskLevel     map[string]int           `json:"by_risk_level"`
	AvgValueScore   float64                  `json:"avg_value_score"`
	TotalBudget     float64                  `json:"total_budget"`
	AvgProbability  float64                  `json:"avg_probability"`
	PredictedLoyal  int                      `json:"predicted_loyal"`
	FailedCustomers int                      `json:"failed_customers"`
}

// RunBatch scores every stored customer and returns the segment
// distribution for the run. Prediction failures skip the customer and are
// counted, not fatal.
func (s *InsightService) RunBatch(ctx context.Context) (*BatchSummary, error) {
	ctx, span := s.tracer.Start(ctx, "insight.batch")
	defer span.End()

	logger := observability.LoggerFromContext(ctx)
	summary := &BatchSummary{
		RunID:       uuid.New().String(),
		BySegment:   make(map[entities.Segment]int),
		ByRiskLevel: make(map[string]int),
	}

	offset := 0
	for {
		page, err := s.features.List(ctx, batchPageSize, offset)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}

		probabilities, err := s.predictor.PredictBatch(ctx, page)
		if err != nil {
			logger.Warn().Err(err).Int("offset", offset).Msg("batch prediction failed, skipping page")
			summary.FailedCustomers += len(page)
			offset += len(page)
			continue
		}

		for i, row := range page {
			insight := s.Compose(row.RFM(), probabilities[i])
			summary.Customers++
			summary.BySegment[insight.Segment]++
			summary.ByRiskLevel[insight.RiskLevel]++
			summary.AvgValueScore += insight.ValueScore
			summary.AvgProbability += insight.Probability
			summary.TotalBudget += insight.SuggestedBudget
			if insight.Probability >= 0.5 {
				summary.PredictedLoyal++
			}
		}
		offset += len(page)
	}

	if summary.Customers > 0 {
		summary.AvgValueScore /= float64(summary.Customers)
		summary.AvgProbability /= float64(summary.Customers)
	}

	logger.Info().
		Str("run_id", summary.RunID).
		Int("customers", summary.Customers).
		Int("failed", summary.FailedCustomers).
		Msg("insight batch finished")

	return summary, nil
}
