package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-cms/pkg/domain"
)

// HandleFind handles GET requests to list documents with optional
// filtering, ordering, and pagination. The filter comes in as a JSON
// `where` query parameter.
func (h *Handler) HandleFind(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName := vars["coll"]

	log.Printf("INFO: handleFind called for collection '%s'", collName)

	opts, err := findOptionsFromQuery(r)
	if err != nil {
		log.Printf("ERROR: Invalid query for collection '%s': %v", collName, err)
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.cms.Find(r.Context(), collName, opts, userFromRequest(r))
	if err != nil {
		log.Printf("ERROR: Find failed for collection '%s': %v", collName, err)
		writeOperationError(w, err)
		return
	}

	log.Printf("INFO: Found %d of %d documents in collection '%s'", len(result.Docs), result.TotalDocs, collName)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// findOptionsFromQuery parses where/orderBy/limit/offset query parameters.
func findOptionsFromQuery(r *http.Request) (domain.FindOptions, error) {
	var opts domain.FindOptions
	query := r.URL.Query()

	if raw := query.Get("where"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &opts.Where); err != nil {
			return opts, err
		}
	}
	opts.OrderBy = query.Get("orderBy")

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return opts, err
		}
		opts.Limit = limit
	}
	if raw := query.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return opts, err
		}
		opts.Offset = offset
	}

	return opts, nil
}
