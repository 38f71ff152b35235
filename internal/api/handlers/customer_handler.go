package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/application/services"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/repositories"
	apperrors "github.com/magdamonroy1824/tfm-mm-ecommerce/pkg/errors"
)

const defaultListSize = 10

// CustomerHandler handles customer feature HTTP requests
type CustomerHandler struct {
	features     repositories.FeatureRepository
	transactions repositories.TransactionRepository
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(features repositories.FeatureRepository, transactions repositories.TransactionRepository) *CustomerHandler {
	return &CustomerHandler{
		features:     features,
		transactions: transactions,
	}
}

// GetCustomer handles GET /api/customers/{id}
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID := services.NormalizeCustomerID(r.PathValue("id"))
	if customerID == "" {
		respondWithError(w, http.StatusBadRequest, "customer ID is required")
		return
	}

	feature, err := h.features.GetByID(r.Context(), customerID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, feature)
}

// GetCustomerTransactions handles GET /api/customers/{id}/transactions
func (h *CustomerHandler) GetCustomerTransactions(w http.ResponseWriter, r *http.Request) {
	customerID := services.NormalizeCustomerID(r.PathValue("id"))
	if customerID == "" {
		respondWithError(w, http.StatusBadRequest, "customer ID is required")
		return
	}

	txs, err := h.transactions.ListByCustomer(r.Context(), customerID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": txs,
		"count":        len(txs),
	})
}

// TopCustomers handles GET /api/customers/top
func (h *CustomerHandler) TopCustomers(w http.ResponseWriter, r *http.Request) {
	n, err := listSize(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	customers, err := h.features.TopByMonetary(r.Context(), n)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"customers": customers,
		"count":     len(customers),
	})
}

// AtRiskCustomers handles GET /api/customers/at-risk
func (h *CustomerHandler) AtRiskCustomers(w http.ResponseWriter, r *http.Request) {
	n, err := listSize(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	customers, err := h.features.AtRisk(r.Context(), n)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"customers": customers,
		"count":     len(customers),
	})
}

// SampleCustomers handles GET /api/customers/sample
func (h *CustomerHandler) SampleCustomers(w http.ResponseWriter, r *http.Request) {
	n, err := listSize(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	customers, err := h.features.Sample(r.Context(), n)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"customers": customers,
		"count":     len(customers),
	})
}

// listSize parses the optional n query parameter
func listSize(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("n")
	if raw == "" {
		return defaultListSize, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > 100 {
		return 0, apperrors.NewValidationError("n must be an integer between 1 and 100")
	}
	return n, nil
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps the error taxonomy onto HTTP statuses
func respondWithAppError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		case apperrors.ErrorTypeMissingData:
			respondWithError(w, http.StatusConflict, appErr.Message)
		case apperrors.ErrorTypeExternal:
			respondWithError(w, http.StatusBadGateway, appErr.Message)
		default:
			respondWithError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}
