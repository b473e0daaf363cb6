// Package core implements the document-CRUD orchestrator: it sequences
// access evaluation, lifecycle hooks, validation, and storage calls for
// every operation against a collection.
package core

import (
	"fmt"

	"github.com/adfharrison1/go-cms/pkg/domain"
	"github.com/adfharrison1/go-cms/pkg/schema"
)

// DefaultLimit is used for find queries that do not specify a limit.
const DefaultLimit = 10

// CMS is an explicit, dependency-injected instance of the content layer.
// It holds the immutable collection map built at startup and the storage
// collaborator; it keeps no per-request state and no document caches.
type CMS struct {
	collections map[string]*schema.Collection
	storage     domain.Storage

	// strictAccessFilter applies residual access filters to findById,
	// update, and delete targets instead of only to list queries.
	strictAccessFilter bool
}

// Option configures a CMS instance at construction time.
type Option func(*CMS)

// WithStrictAccessFilter makes single-document operations (findById,
// update, delete) verify that the target document matches a residual
// filter returned by the access rule. Off by default: the historical
// behavior only merges residual filters into list and count queries.
func WithStrictAccessFilter() Option {
	return func(c *CMS) {
		c.strictAccessFilter = true
	}
}

// New applies the configuration's plugins, validates the result, and
// returns a ready CMS instance over the given storage collaborator.
func New(cfg schema.Config, store domain.Storage, options ...Option) (*CMS, error) {
	if store == nil {
		return nil, fmt.Errorf("core: storage is required")
	}

	cfg = schema.ApplyPlugins(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("core: invalid config: %w", err)
	}

	cms := &CMS{
		collections: make(map[string]*schema.Collection, len(cfg.Collections)),
		storage:     store,
	}
	for i := range cfg.Collections {
		coll := cfg.Collections[i]
		cms.collections[coll.Name] = &coll
	}

	for _, option := range options {
		option(cms)
	}

	return cms, nil
}

// Collection returns the definition for the named collection, or a
// NotFoundError if no such collection is configured.
func (c *CMS) Collection(name string) (*schema.Collection, error) {
	coll, ok := c.collections[name]
	if !ok {
		return nil, &domain.NotFoundError{Collection: name}
	}
	return coll, nil
}

// Collections returns the names of all configured collections.
func (c *CMS) Collections() []string {
	names := make([]string, 0, len(c.collections))
	for name := range c.collections {
		names = append(names, name)
	}
	return names
}
