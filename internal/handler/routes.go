package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Register mounts the form pages and the JSON API on r. limit wraps every
// route that runs the classifier, so the form and the API share one budget.
func (h *Handler) Register(r *mux.Router, limit mux.MiddlewareFunc) {
	r.HandleFunc("/", h.Index).Methods("GET")
	r.HandleFunc("/healthz", h.Health).Methods("GET")
	r.Handle("/predict", limit(http.HandlerFunc(h.PredictForm))).Methods("POST")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(limit)
	api.HandleFunc("/predict", h.Predict).Methods("POST")
	api.HandleFunc("/schema", h.Schema).Methods("GET")
}
