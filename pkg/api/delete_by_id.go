package api

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// HandleDeleteByID handles DELETE requests to remove a document
func (h *Handler) HandleDeleteByID(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName := vars["coll"]
	docID := vars["id"]

	log.Printf("INFO: handleDeleteByID called for collection '%s', document '%s'", collName, docID)

	if err := h.cms.Delete(r.Context(), collName, docID, userFromRequest(r)); err != nil {
		log.Printf("ERROR: Delete failed for collection '%s', document '%s': %v", collName, docID, err)
		writeOperationError(w, err)
		return
	}

	log.Printf("INFO: Deleted document '%s' from collection '%s'", docID, collName)
	w.WriteHeader(http.StatusNoContent)
}
