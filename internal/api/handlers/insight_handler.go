package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/application/services"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/entities"
)

// InsightHandler handles insight HTTP requests
type InsightHandler struct {
	insights *services.InsightService
}

// NewInsightHandler creates a new insight handler
func NewInsightHandler(insights *services.InsightService) *InsightHandler {
	return &InsightHandler{
		insights: insights,
	}
}

// GetInsight handles GET /api/customers/{id}/insight
func (h *InsightHandler) GetInsight(w http.ResponseWriter, r *http.Request) {
	customerID := services.NormalizeCustomerID(r.PathValue("id"))
	if customerID == "" {
		respondWithError(w, http.StatusBadRequest, "customer ID is required")
		return
	}

	insight, err := h.insights.ComputeForCustomer(r.Context(), customerID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, insight)
}

type previewRequest struct {
	Recency     int     `json:"recency"`
	Frequency   int     `json:"frequency"`
	Monetary    float64 `json:"monetary"`
	Probability float64 `json:"probability"`
}

// PreviewInsight handles POST /api/insights/preview. It composes an insight
// from caller-supplied metrics without touching stored features, the
// what-if path for exploring segment boundaries.
func (h *InsightHandler) PreviewInsight(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Recency < 0 || req.Frequency < 0 || req.Monetary < 0 {
		respondWithError(w, http.StatusBadRequest, "recency, frequency and monetary must be non-negative")
		return
	}
	if req.Probability < 0 || req.Probability > 1 {
		respondWithError(w, http.StatusBadRequest, "probability must be between 0 and 1")
		return
	}

	insight := h.insights.Compose(entities.CustomerRFM{
		Recency:   req.Recency,
		Frequency: req.Frequency,
		Monetary:  req.Monetary,
	}, req.Probability)

	respondWithJSON(w, http.StatusOK, insight)
}
