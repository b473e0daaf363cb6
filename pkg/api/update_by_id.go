package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-cms/pkg/domain"
)

// HandleUpdateByID handles PATCH requests to partially update a document
func (h *Handler) HandleUpdateByID(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName := vars["coll"]
	docID := vars["id"]

	log.Printf("INFO: handleUpdateByID called for collection '%s', document '%s'", collName, docID)

	var patch domain.Document
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		log.Printf("ERROR: Decoding body failed: %v", err)
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	doc, err := h.cms.Update(r.Context(), collName, docID, patch, userFromRequest(r))
	if err != nil {
		log.Printf("ERROR: Update failed for collection '%s', document '%s': %v", collName, docID, err)
		writeOperationError(w, err)
		return
	}

	log.Printf("INFO: Updated document '%s' in collection '%s'", docID, collName)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}
