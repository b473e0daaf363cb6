package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/adfharrison1/go-cms/pkg/access"
	"github.com/adfharrison1/go-cms/pkg/domain"
	"github.com/adfharrison1/go-cms/pkg/schema"
)

// Create validates and persists a new document in the named collection.
func (c *CMS) Create(ctx context.Context, collection string, data domain.Document, user *domain.User) (domain.Document, error) {
	coll, err := c.Collection(collection)
	if err != nil {
		return nil, err
	}

	decision, err := access.Evaluate(ctx, coll.Access.Create, access.Context{User: user, Data: data})
	if err != nil {
		return nil, err
	}
	if !decision.Allowed() {
		return nil, c.denied(coll.Name, schema.OpCreate, user)
	}
	if _, ok := decision.Filter(); ok {
		return nil, fmt.Errorf("core: create rule for collection %q returned a filter", coll.Name)
	}

	hc := schema.HookContext{Collection: coll.Name, Operation: schema.OpCreate, User: user}
	if coll.Hooks.BeforeChange != nil {
		if data, err = coll.Hooks.BeforeChange(ctx, data, hc); err != nil {
			return nil, err
		}
	}

	validated, verrs := schema.Validate(coll.Fields, data)
	if len(verrs) > 0 {
		return nil, &domain.ValidationError{Collection: coll.Name, Errors: verrs}
	}

	doc, err := c.storage.Create(ctx, coll.Name, validated)
	if err != nil {
		return nil, wrapStorage(err)
	}

	// The write has committed; a hook failure from here on still
	// propagates as the operation's failure.
	if coll.Hooks.AfterChange != nil {
		if err := coll.Hooks.AfterChange(ctx, doc, nil, hc); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// Find returns a page of documents matching the caller's filter, narrowed
// by any residual filter from the collection's read rule.
func (c *CMS) Find(ctx context.Context, collection string, opts domain.FindOptions, user *domain.User) (*domain.FindResult, error) {
	coll, err := c.Collection(collection)
	if err != nil {
		return nil, err
	}

	where, err := c.readWhere(ctx, coll, opts.Where, user)
	if err != nil {
		return nil, err
	}
	opts.Where = where

	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	docs, total, err := c.storage.Find(ctx, coll.Name, opts)
	if err != nil {
		return nil, wrapStorage(err)
	}

	hc := schema.HookContext{Collection: coll.Name, Operation: schema.OpRead, User: user}
	if coll.Hooks.BeforeRead != nil {
		for i, doc := range docs {
			if docs[i], err = coll.Hooks.BeforeRead(ctx, doc, hc); err != nil {
				return nil, err
			}
		}
	}

	return paginate(docs, total, opts.Limit, opts.Offset), nil
}

// FindByID returns the document with the given id, or nil if it does not
// exist. With strict access filtering enabled, a document that falls
// outside the read rule's residual filter is reported as missing.
func (c *CMS) FindByID(ctx context.Context, collection, id string, user *domain.User) (domain.Document, error) {
	coll, err := c.Collection(collection)
	if err != nil {
		return nil, err
	}

	decision, err := access.Evaluate(ctx, coll.Access.Read, access.Context{User: user})
	if err != nil {
		return nil, err
	}
	if !decision.Allowed() {
		return nil, c.denied(coll.Name, schema.OpRead, user)
	}

	doc, err := c.storage.FindByID(ctx, coll.Name, id)
	if err != nil {
		return nil, wrapStorage(err)
	}
	if doc == nil {
		return nil, nil
	}

	if c.strictAccessFilter {
		if filter, ok := decision.Filter(); ok && !filter.Matches(doc) {
			return nil, nil
		}
	}

	if coll.Hooks.BeforeRead != nil {
		hc := schema.HookContext{Collection: coll.Name, Operation: schema.OpRead, User: user}
		if doc, err = coll.Hooks.BeforeRead(ctx, doc, hc); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// Update applies a partial patch to an existing document. The merged
// document is revalidated in full; only the patch fields are written.
func (c *CMS) Update(ctx context.Context, collection, id string, patch domain.Document, user *domain.User) (domain.Document, error) {
	coll, err := c.Collection(collection)
	if err != nil {
		return nil, err
	}

	existing, err := c.storage.FindByID(ctx, coll.Name, id)
	if err != nil {
		return nil, wrapStorage(err)
	}
	if existing == nil {
		return nil, &domain.NotFoundError{Collection: coll.Name, ID: id}
	}

	decision, err := access.Evaluate(ctx, coll.Access.Update, access.Context{User: user, Data: patch, Doc: existing})
	if err != nil {
		return nil, err
	}
	if !decision.Allowed() {
		return nil, c.denied(coll.Name, schema.OpUpdate, user)
	}
	if c.strictAccessFilter {
		if filter, ok := decision.Filter(); ok && !filter.Matches(existing) {
			return nil, c.denied(coll.Name, schema.OpUpdate, user)
		}
	}

	hc := schema.HookContext{Collection: coll.Name, Operation: schema.OpUpdate, User: user, OriginalDoc: existing}
	if coll.Hooks.BeforeChange != nil {
		if patch, err = coll.Hooks.BeforeChange(ctx, patch, hc); err != nil {
			return nil, err
		}
	}

	if _, verrs := schema.Validate(coll.Fields, existing.Merge(patch)); len(verrs) > 0 {
		return nil, &domain.ValidationError{Collection: coll.Name, Errors: verrs}
	}

	doc, err := c.storage.Update(ctx, coll.Name, id, patch)
	if err != nil {
		return nil, wrapStorage(err)
	}

	if coll.Hooks.AfterChange != nil {
		if err := coll.Hooks.AfterChange(ctx, doc, existing, hc); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// Delete removes an existing document. There is no hook point for delete.
func (c *CMS) Delete(ctx context.Context, collection, id string, user *domain.User) error {
	coll, err := c.Collection(collection)
	if err != nil {
		return err
	}

	existing, err := c.storage.FindByID(ctx, coll.Name, id)
	if err != nil {
		return wrapStorage(err)
	}
	if existing == nil {
		return &domain.NotFoundError{Collection: coll.Name, ID: id}
	}

	decision, err := access.Evaluate(ctx, coll.Access.Delete, access.Context{User: user, Doc: existing})
	if err != nil {
		return err
	}
	if !decision.Allowed() {
		return c.denied(coll.Name, schema.OpDelete, user)
	}
	if c.strictAccessFilter {
		if filter, ok := decision.Filter(); ok && !filter.Matches(existing) {
			return c.denied(coll.Name, schema.OpDelete, user)
		}
	}

	if err := c.storage.Delete(ctx, coll.Name, id); err != nil {
		return wrapStorage(err)
	}
	return nil
}

// Count returns the number of documents matching the caller's filter,
// narrowed by any residual filter from the read rule.
func (c *CMS) Count(ctx context.Context, collection string, where domain.Where, user *domain.User) (int, error) {
	coll, err := c.Collection(collection)
	if err != nil {
		return 0, err
	}

	merged, err := c.readWhere(ctx, coll, where, user)
	if err != nil {
		return 0, err
	}

	total, err := c.storage.Count(ctx, coll.Name, merged)
	if err != nil {
		return 0, wrapStorage(err)
	}
	return total, nil
}

// readWhere evaluates the collection's read rule and merges any residual
// filter into the caller's filter.
func (c *CMS) readWhere(ctx context.Context, coll *schema.Collection, where domain.Where, user *domain.User) (domain.Where, error) {
	decision, err := access.Evaluate(ctx, coll.Access.Read, access.Context{User: user})
	if err != nil {
		return nil, err
	}
	if !decision.Allowed() {
		return nil, c.denied(coll.Name, schema.OpRead, user)
	}
	if filter, ok := decision.Filter(); ok {
		return access.MergeWhere(where, filter), nil
	}
	return where, nil
}

func (c *CMS) denied(collection, operation string, user *domain.User) error {
	return &domain.AccessDeniedError{
		Collection:      collection,
		Operation:       operation,
		Unauthenticated: user == nil,
	}
}

// paginate builds the find result envelope from a page of documents and
// the total match count.
func paginate(docs []domain.Document, total, limit, offset int) *domain.FindResult {
	if docs == nil {
		docs = []domain.Document{}
	}
	totalPages := (total + limit - 1) / limit
	page := offset/limit + 1
	return &domain.FindResult{
		Docs:        docs,
		TotalDocs:   total,
		Limit:       limit,
		Offset:      offset,
		TotalPages:  totalPages,
		Page:        page,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// wrapStorage wraps collaborator failures in StorageError while letting
// already-classified not-found errors through untouched.
func wrapStorage(err error) error {
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return err
	}
	return &domain.StorageError{Err: err}
}
