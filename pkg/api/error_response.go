package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/adfharrison1/go-cms/pkg/domain"
)

// ErrorResponse represents a standard JSON error response
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Code    int      `json:"code"`
	Errors  []string `json:"errors,omitempty"`
}

// WriteJSONError writes a JSON error response with the given status code and message
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	writeErrorResponse(w, statusCode, message, nil)
}

func writeErrorResponse(w http.ResponseWriter, statusCode int, message string, fieldErrors []string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
		Errors:  fieldErrors,
	}

	json.NewEncoder(w).Encode(response)
}

// writeOperationError maps the core error taxonomy onto HTTP status codes:
// NotFound 404, ValidationFailed 400, AccessDenied 403 (401 when no user
// was supplied), everything else 500.
func writeOperationError(w http.ResponseWriter, err error) {
	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		WriteJSONError(w, http.StatusNotFound, notFound.Error())
		return
	}

	var denied *domain.AccessDeniedError
	if errors.As(err, &denied) {
		status := http.StatusForbidden
		if denied.Unauthenticated {
			status = http.StatusUnauthorized
		}
		WriteJSONError(w, status, denied.Error())
		return
	}

	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		writeErrorResponse(w, http.StatusBadRequest, "validation failed", validation.Errors)
		return
	}

	WriteJSONError(w, http.StatusInternalServerError, err.Error())
}
