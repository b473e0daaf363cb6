package domain

import (
	"fmt"
	"strings"
)

// NotFoundError reports that a collection, or a document within one, does
// not exist. ID is empty when the collection itself is missing.
type NotFoundError struct {
	Collection string
	ID         string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("collection %q not found", e.Collection)
	}
	return fmt.Sprintf("document %q not found in collection %q", e.ID, e.Collection)
}

// AccessDeniedError reports that an access rule denied the operation.
// Unauthenticated is set when no acting user was supplied, so the HTTP
// layer can distinguish 401 from 403.
type AccessDeniedError struct {
	Collection      string
	Operation       string
	Unauthenticated bool
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access denied for %s on collection %q", e.Operation, e.Collection)
}

// ValidationError carries the complete list of per-field failures for a
// rejected write. Validation never short-circuits, so Errors holds every
// violation found.
type ValidationError struct {
	Collection string
	Errors     []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for collection %q: %s", e.Collection, strings.Join(e.Errors, "; "))
}

// StorageError wraps a failure from the storage collaborator. The core does
// not interpret or retry these.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
