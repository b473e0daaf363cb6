package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// HandleGetByID handles GET requests to retrieve a specific document by ID
func (h *Handler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName := vars["coll"]
	docID := vars["id"]

	log.Printf("INFO: handleGetByID called for collection '%s', document '%s'", collName, docID)

	doc, err := h.cms.FindByID(r.Context(), collName, docID, userFromRequest(r))
	if err != nil {
		log.Printf("ERROR: GetByID failed for collection '%s', document '%s': %v", collName, docID, err)
		writeOperationError(w, err)
		return
	}
	if doc == nil {
		log.Printf("WARN: Document '%s' not found in collection '%s'", docID, collName)
		WriteJSONError(w, http.StatusNotFound, "document not found")
		return
	}

	log.Printf("INFO: Retrieved document '%s' from collection '%s'", docID, collName)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}
