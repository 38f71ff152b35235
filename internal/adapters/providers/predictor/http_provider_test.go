package predictor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/entities"
	apperrors "github.com/magdamonroy1824/tfm-mm-ecommerce/pkg/errors"
)

func TestHTTPPredictorPredict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/predict", r.URL.Path)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req predictRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "12345", req.Features.CustomerID)

		json.NewEncoder(w).Encode(predictResponse{Probability: 0.83})
	}))
	defer server.Close()

	p := NewHTTPPredictorWithOptions(server.URL, "secret", server.Client())
	prob, err := p.Predict(context.Background(), entities.FeatureVector{CustomerID: "12345"})
	require.NoError(t, err)
	assert.Equal(t, 0.83, prob)
}

func TestHTTPPredictorBatchLengthMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(predictBatchResponse{Probabilities: []float64{0.5}})
	}))
	defer server.Close()

	p := NewHTTPPredictorWithOptions(server.URL, "", server.Client())
	_, err := p.PredictBatch(context.Background(), []entities.FeatureVector{
		{CustomerID: "a"}, {CustomerID: "b"},
	})
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeExternal, appErr.Type)
}

func TestHTTPPredictorServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	p := NewHTTPPredictorWithOptions(server.URL, "", server.Client())
	_, err := p.Predict(context.Background(), entities.FeatureVector{CustomerID: "12345"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestHTTPPredictorEmptyBatch(t *testing.T) {
	p := NewHTTPPredictor("http://model.invalid", "")
	probs, err := p.PredictBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, probs)
}
