package routes

import (
	"net/http"

	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/api/handlers"
	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/api/middleware"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	customerHandler *handlers.CustomerHandler
	insightHandler  *handlers.InsightHandler
}

// NewRouter creates a new router
func NewRouter(
	customerHandler *handlers.CustomerHandler,
	insightHandler *handlers.InsightHandler,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		customerHandler: customerHandler,
		insightHandler:  insightHandler,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Customer feature endpoints
	r.mux.HandleFunc("GET /api/customers/top", r.customerHandler.TopCustomers)
	r.mux.HandleFunc("GET /api/customers/at-risk", r.customerHandler.AtRiskCustomers)
	r.mux.HandleFunc("GET /api/customers/sample", r.customerHandler.SampleCustomers)
	r.mux.HandleFunc("GET /api/customers/{id}", r.customerHandler.GetCustomer)
	r.mux.HandleFunc("GET /api/customers/{id}/transactions", r.customerHandler.GetCustomerTransactions)

	// Insight endpoints
	r.mux.HandleFunc("GET /api/customers/{id}/insight", r.insightHandler.GetInsight)
	r.mux.HandleFunc("POST /api/insights/preview", r.insightHandler.PreviewInsight)

	// Apply middleware chain
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
