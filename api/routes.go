package api

import (
	"github.com/gorilla/mux"
)

// ViewsPath is where room view images are served
const ViewsPath = "/api/v1/views"

func SetupRoutes(router *mux.Router, handlers *Handlers) {
	// API version prefix
	api := router.PathPrefix("/api/v1").Subrouter()

	// Parameter discovery
	api.HandleFunc("/combinations", handlers.GetCombinations).Methods("GET")
	api.HandleFunc("/combinations/nobs", handlers.GetValidNobs).Methods("GET")
	api.HandleFunc("/categories", handlers.ListCategories).Methods("GET")

	// Per result file endpoints
	results := api.PathPrefix("/results/{frequency:[0-9]+}/{blocksize:[0-9]+}/{nob:[0-9]+}").Subrouter()
	results.HandleFunc("/columns", handlers.GetColumns).Methods("GET")
	results.HandleFunc("/table", handlers.GetTable).Methods("GET")
	results.HandleFunc("/table.xlsx", handlers.ExportTable).Methods("GET")
	results.HandleFunc("/evaluation", handlers.GetEvaluation).Methods("GET")
	results.HandleFunc("/evaluation.png", handlers.GetEvaluationPlot).Methods("GET")
	results.HandleFunc("/evaluation.html", handlers.GetEvaluationPage).Methods("GET")
	results.HandleFunc("/scatter.png", handlers.GetColumnScatter).Methods("GET")

	// Room views
	api.HandleFunc("/views", handlers.ListViews).Methods("GET")
	api.HandleFunc("/views/{file}", handlers.GetView).Methods("GET")

	// Health check endpoint
	api.HandleFunc("/health", handlers.HealthCheck).Methods("GET")
}
