// Package server wires the HTTP routes and middleware.
package server

import (
	"log/slog"
	"net/http"

	"github.com/smartinventory/inventory-tracker/app/inventory"
	"github.com/smartinventory/inventory-tracker/app/pricing"
)

const livenessMessage = "Smart Inventory Tracker backend is running"

// NewRouter registers the API routes and returns the handler with middleware.
func NewRouter(products *inventory.ProductHandler, prices *pricing.TriggerHandler, allowedOrigins []string, log *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/products", products.HandleCreate)
	mux.HandleFunc("GET /api/products", products.HandleList)
	mux.HandleFunc("PUT /api/products/{id}", products.HandleUpdate)
	mux.HandleFunc("DELETE /api/products/{id}", products.HandleDelete)

	mux.HandleFunc("GET /api/fake-products", products.HandleGetCatalog)
	mux.HandleFunc("POST /api/fake-products", products.HandleImportCatalog)
	mux.HandleFunc("GET /api/snapshot", products.HandleSnapshot)

	mux.HandleFunc("POST /api/check-prices", prices.HandleCheckPrices)

	mux.HandleFunc("GET /{$}", handleLiveness)

	return withRequestID(withLogging(log, withCORS(allowedOrigins, mux)))
}

func handleLiveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(livenessMessage))
}
