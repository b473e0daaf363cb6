package api

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API routes with the given router
func (h *Handler) RegisterRoutes(router *mux.Router) {
	// Health check
	router.HandleFunc("/health", h.HandleHealth).Methods("GET")

	// Collection operations
	router.HandleFunc("/collections/{coll}", h.HandleCreate).Methods("POST")
	router.HandleFunc("/collections/{coll}", h.HandleFind).Methods("GET")
	router.HandleFunc("/collections/{coll}/count", h.HandleCount).Methods("GET")

	// Document operations (by ID)
	router.HandleFunc("/collections/{coll}/documents/{id}", h.HandleGetByID).Methods("GET")
	router.HandleFunc("/collections/{coll}/documents/{id}", h.HandleUpdateByID).Methods("PATCH")
	router.HandleFunc("/collections/{coll}/documents/{id}", h.HandleDeleteByID).Methods("DELETE")
}
