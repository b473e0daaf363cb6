package domain

import "context"

// FindOptions controls filtering, ordering, and pagination for list queries.
// OrderBy is a field name, optionally prefixed with "-" for descending order.
type FindOptions struct {
	Where   Where  `json:"where,omitempty"`
	OrderBy string `json:"orderBy,omitempty"`
	Limit   int    `json:"limit,omitempty"`
	Offset  int    `json:"offset,omitempty"`
}

// FindResult is the paginated result of a find operation.
type FindResult struct {
	Docs        []Document `json:"docs"`
	TotalDocs   int        `json:"totalDocs"`
	Limit       int        `json:"limit"`
	Offset      int        `json:"offset"`
	TotalPages  int        `json:"totalPages"`
	Page        int        `json:"page"`
	HasNextPage bool       `json:"hasNextPage"`
	HasPrevPage bool       `json:"hasPrevPage"`
}

// Storage is the collaborator interface the orchestrator persists through.
// Implementations own ID generation, partial-update semantics, timestamp
// stamping, and unique-field enforcement. Find returns the page of matching
// documents together with the total match count before pagination.
type Storage interface {
	Create(ctx context.Context, collection string, data Document) (Document, error)
	Find(ctx context.Context, collection string, opts FindOptions) ([]Document, int, error)
	FindByID(ctx context.Context, collection, id string) (Document, error)
	Update(ctx context.Context, collection, id string, data Document) (Document, error)
	Delete(ctx context.Context, collection, id string) error
	Count(ctx context.Context, collection string, where Where) (int, error)
}
