package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-cms/pkg/domain"
)

// HandleCount handles GET requests to count documents matching a filter
func (h *Handler) HandleCount(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName := vars["coll"]

	log.Printf("INFO: handleCount called for collection '%s'", collName)

	var where domain.Where
	if raw := r.URL.Query().Get("where"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &where); err != nil {
			log.Printf("ERROR: Invalid where filter for collection '%s': %v", collName, err)
			WriteJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	count, err := h.cms.Count(r.Context(), collName, where, userFromRequest(r))
	if err != nil {
		log.Printf("ERROR: Count failed for collection '%s': %v", collName, err)
		writeOperationError(w, err)
		return
	}

	log.Printf("INFO: Counted %d documents in collection '%s'", count, collName)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"count": count})
}
