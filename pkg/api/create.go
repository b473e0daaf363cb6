package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-cms/pkg/domain"
)

// HandleCreate handles POST requests to create documents in collections
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName := vars["coll"]

	log.Printf("INFO: handleCreate called for collection '%s'", collName)

	var data domain.Document
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		log.Printf("ERROR: Decoding body failed: %v", err)
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	doc, err := h.cms.Create(r.Context(), collName, data, userFromRequest(r))
	if err != nil {
		log.Printf("ERROR: Create failed for collection '%s': %v", collName, err)
		writeOperationError(w, err)
		return
	}

	log.Printf("INFO: Created document '%s' in collection '%s'", doc.ID(), collName)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(doc)
}
