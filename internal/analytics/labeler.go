package analytics

import (
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/entities"
	apperrors "github.com/magdamonroy1824/tfm-mm-ecommerce/pkg/errors"
)

// LoyaltyCriteria are the training-time thresholds that turn RFM rows into a
// binary loyalty label. The percentile thresholds are recomputed from the
// full population on every call, so labels shift when the population does.
type LoyaltyCriteria struct {
	FrequencyThreshold int
	MonetaryPercentile float64
	RecencyPercentile  float64
}

// DefaultLoyaltyCriteria returns the documented default criteria.
func DefaultLoyaltyCriteria() LoyaltyCriteria {
	return LoyaltyCriteria{
		FrequencyThreshold: 3,
		MonetaryPercentile: 0.25,
		RecencyPercentile:  0.75,
	}
}

// LabelResult carries the binary label per customer together with the
// population thresholds that produced it.
type LabelResult struct {
	MonetaryThreshold float64
	RecencyThreshold  float64
	Loyal             map[string]bool
}

// LabelLoyal marks a customer loyal iff Frequency >= the frequency
// threshold, Monetary >= the population monetary percentile and Recency <=
// the population recency percentile. The label feeds classifier training
// only; the segmentation cascade never reads it.
func LabelLoyal(rfm []entities.CustomerRFM, criteria LoyaltyCriteria) (*LabelResult, error) {
	if len(rfm) == 0 {
		return nil, apperrors.NewMissingDataError("rfm table is empty", nil)
	}

	monetary := make([]float64, len(rfm))
	recency := make([]float64, len(rfm))
	for i, r := range rfm {
		monetary[i] = r.Monetary
		recency[i] = float64(r.Recency)
	}

	result := &LabelResult{
		MonetaryThreshold: Percentile(monetary, criteria.MonetaryPercentile),
		RecencyThreshold:  Percentile(recency, criteria.RecencyPercentile),
		Loyal:             make(map[string]bool, len(rfm)),
	}

	for _, r := range rfm {
		result.Loyal[r.CustomerID] = r.Frequency >= criteria.FrequencyThreshold &&
			r.Monetary >= result.MonetaryThreshold &&
			float64(r.Recency) <= result.RecencyThreshold
	}
	return result, nil
}
