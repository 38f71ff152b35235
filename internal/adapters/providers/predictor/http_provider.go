package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/entities"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/providers"
	apperrors "github.com/magdamonroy1824/tfm-mm-ecommerce/pkg/errors"
)

const (
	defaultHTTPTimeout = 8 * time.Second
	predictPath        = "/predict"
	predictBatchPath   = "/predict/batch"
)

// HTTPPredictor calls an externally hosted model service over HTTP.
// The service owns the trained classifier; this adapter only moves
// feature rows out and probabilities back.
type HTTPPredictor struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPPredictor creates a predictor backed by a model service.
func NewHTTPPredictor(baseURL, apiKey string) providers.LoyaltyPredictor {
	return NewHTTPPredictorWithOptions(baseURL, apiKey, nil)
}

// NewHTTPPredictorWithOptions allows overriding the HTTP client (used for tests).
func NewHTTPPredictorWithOptions(baseURL, apiKey string, httpClient *http.Client) providers.LoyaltyPredictor {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &HTTPPredictor{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type predictRequest struct {
	Features entities.FeatureVector `json:"features"`
}

type predictResponse struct {
	Probability float64 `json:"probability"`
}

type predictBatchRequest struct {
	Features []entities.FeatureVector `json:"features"`
}

type predictBatchResponse struct {
	Probabilities []float64 `json:"probabilities"`
}

// Predict returns the probability that the customer becomes loyal
func (p *HTTPPredictor) Predict(ctx context.Context, features entities.FeatureVector) (float64, error) {
	var resp predictResponse
	if err := p.post(ctx, predictPath, predictRequest{Features: features}, &resp); err != nil {
		return 0, err
	}
	return resp.Probability, nil
}

// PredictBatch returns one probability per input row, in input order
func (p *HTTPPredictor) PredictBatch(ctx context.Context, features []entities.FeatureVector) ([]float64, error) {
	if len(features) == 0 {
		return []float64{}, nil
	}

	var resp predictBatchResponse
	if err := p.post(ctx, predictBatchPath, predictBatchRequest{Features: features}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Probabilities) != len(features) {
		return nil, apperrors.NewExternalError(
			fmt.Sprintf("model service returned %d probabilities for %d rows", len(resp.Probabilities), len(features)),
			nil,
		)
	}
	return resp.Probabilities, nil
}

func (p *HTTPPredictor) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return apperrors.NewInternalError("failed to encode prediction request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return apperrors.NewInternalError("failed to build prediction request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return apperrors.NewExternalError("model service request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return apperrors.NewExternalError(
			fmt.Sprintf("model service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))),
			nil,
		)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewExternalError("failed to decode model service response", err)
	}
	return nil
}
