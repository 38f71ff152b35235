package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/api/handlers"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/api/routes"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/application/services"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/entities"
	apperrors "github.com/magdamonroy1824/tfm-mm-ecommerce/pkg/errors"
)

type MockFeatureRepository struct {
	mock.Mock
}

func (m *MockFeatureRepository) ReplaceAll(ctx context.Context, rows []entities.FeatureVector) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockFeatureRepository) GetByID(ctx context.Context, customerID string) (*entities.FeatureVector, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.FeatureVector), args.Error(1)
}

func (m *MockFeatureRepository) List(ctx context.Context, limit, offset int) ([]entities.FeatureVector, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.FeatureVector), args.Error(1)
}

func (m *MockFeatureRepository) ListIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockFeatureRepository) TopByMonetary(ctx context.Context, n int) ([]entities.FeatureVector, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.FeatureVector), args.Error(1)
}

func (m *MockFeatureRepository) AtRisk(ctx context.Context, n int) ([]entities.FeatureVector, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.FeatureVector), args.Error(1)
}

func (m *MockFeatureRepository) Sample(ctx context.Context, n int) ([]entities.FeatureVector, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.FeatureVector), args.Error(1)
}

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) ListCleaned(ctx context.Context) ([]entities.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListByCustomer(ctx context.Context, customerID string) ([]entities.Transaction, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) CountCleaned(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockPredictor struct {
	mock.Mock
}

func (m *MockPredictor) Predict(ctx context.Context, features entities.FeatureVector) (float64, error) {
	args := m.Called(ctx, features)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockPredictor) PredictBatch(ctx context.Context, features []entities.FeatureVector) ([]float64, error) {
	args := m.Called(ctx, features)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

func newTestServer(repo *MockFeatureRepository, pred *MockPredictor) http.Handler {
	return newTestServerWithTransactions(repo, new(MockTransactionRepository), pred)
}

func newTestServerWithTransactions(repo *MockFeatureRepository, txRepo *MockTransactionRepository, pred *MockPredictor) http.Handler {
	insightService := services.NewInsightService(
		repo,
		pred,
		services.NewSegmentationService(),
		services.NewRecommendationService(),
	)
	router := routes.NewRouter(
		handlers.NewCustomerHandler(repo, txRepo),
		handlers.NewInsightHandler(insightService),
	)
	return router.SetupRoutes()
}

type customerListResponse struct {
	Customers []entities.FeatureVector `json:"customers"`
	Count     int                      `json:"count"`
}

func TestGetCustomer(t *testing.T) {
	repo := new(MockFeatureRepository)
	repo.On("GetByID", mock.Anything, "12583").Return(&entities.FeatureVector{
		CustomerID: "12583", Recency: 35, Frequency: 4, Monetary: 450,
	}, nil)

	server := newTestServer(repo, new(MockPredictor))

	req := httptest.NewRequest(http.MethodGet, "/api/customers/12583", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got entities.FeatureVector
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "12583", got.CustomerID)
	assert.Equal(t, 35, got.Recency)
}

func TestGetCustomerAcceptsDisplayPrefix(t *testing.T) {
	repo := new(MockFeatureRepository)
	repo.On("GetByID", mock.Anything, "12583").Return(&entities.FeatureVector{CustomerID: "12583"}, nil)

	server := newTestServer(repo, new(MockPredictor))

	req := httptest.NewRequest(http.MethodGet, "/api/customers/CUST-12583", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertCalled(t, "GetByID", mock.Anything, "12583")
}

func TestGetCustomerNotFound(t *testing.T) {
	repo := new(MockFeatureRepository)
	repo.On("GetByID", mock.Anything, "99999").Return(nil, apperrors.NewNotFoundError("customer 99999 not found"))

	server := newTestServer(repo, new(MockPredictor))

	req := httptest.NewRequest(http.MethodGet, "/api/customers/99999", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetCustomerTransactions(t *testing.T) {
	txRepo := new(MockTransactionRepository)
	txRepo.On("ListByCustomer", mock.Anything, "12583").Return([]entities.Transaction{
		{CustomerID: "12583", InvoiceNo: "536370", Quantity: 4, UnitPrice: 10},
	}, nil)

	server := newTestServerWithTransactions(new(MockFeatureRepository), txRepo, new(MockPredictor))

	req := httptest.NewRequest(http.MethodGet, "/api/customers/12583/transactions", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Transactions []entities.Transaction `json:"transactions"`
		Count        int                    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, "536370", got.Transactions[0].InvoiceNo)
}

func TestTopCustomers(t *testing.T) {
	repo := new(MockFeatureRepository)
	repo.On("TopByMonetary", mock.Anything, 3).Return([]entities.FeatureVector{
		{CustomerID: "14646", Monetary: 28000},
		{CustomerID: "18102", Monetary: 26000},
		{CustomerID: "17450", Monetary: 19000},
	}, nil)

	server := newTestServer(repo, new(MockPredictor))

	req := httptest.NewRequest(http.MethodGet, "/api/customers/top?n=3", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got customerListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 3, got.Count)
	assert.Equal(t, "14646", got.Customers[0].CustomerID)
}

func TestTopCustomersRejectsBadSize(t *testing.T) {
	server := newTestServer(new(MockFeatureRepository), new(MockPredictor))

	for _, n := range []string{"0", "-2", "101", "abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/customers/top?n="+n, nil)
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "n=%s", n)
	}
}

func TestAtRiskCustomersDefaultSize(t *testing.T) {
	repo := new(MockFeatureRepository)
	repo.On("AtRisk", mock.Anything, 10).Return([]entities.FeatureVector{}, nil)

	server := newTestServer(repo, new(MockPredictor))

	req := httptest.NewRequest(http.MethodGet, "/api/customers/at-risk", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertCalled(t, "AtRisk", mock.Anything, 10)
}

func TestSampleCustomers(t *testing.T) {
	repo := new(MockFeatureRepository)
	repo.On("Sample", mock.Anything, 5).Return([]entities.FeatureVector{
		{CustomerID: "12583"},
	}, nil)

	server := newTestServer(repo, new(MockPredictor))

	req := httptest.NewRequest(http.MethodGet, "/api/customers/sample?n=5", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got customerListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Count)
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(new(MockFeatureRepository), new(MockPredictor))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
