package schema

import (
	"context"

	"github.com/adfharrison1/go-cms/pkg/access"
	"github.com/adfharrison1/go-cms/pkg/domain"
)

// Operation names as seen by access rules and hooks.
const (
	OpCreate = "create"
	OpRead   = "read"
	OpUpdate = "update"
	OpDelete = "delete"
)

// AccessRules holds the per-operation access rules for a collection. A nil
// rule means the operation is public.
type AccessRules struct {
	Create access.Rule
	Read   access.Rule
	Update access.Rule
	Delete access.Rule
}

// ForOperation returns the rule configured for the named operation.
func (ar AccessRules) ForOperation(op string) access.Rule {
	switch op {
	case OpCreate:
		return ar.Create
	case OpRead:
		return ar.Read
	case OpUpdate:
		return ar.Update
	case OpDelete:
		return ar.Delete
	}
	return nil
}

// HookContext describes the operation a hook is running inside of.
// OriginalDoc is set for update (the pre-patch document).
type HookContext struct {
	Collection  string
	Operation   string
	User        *domain.User
	OriginalDoc domain.Document
}

// BeforeChangeHook runs before validation on create and update. It receives
// the raw candidate payload and returns the payload to validate and persist.
type BeforeChangeHook func(ctx context.Context, data domain.Document, hc HookContext) (domain.Document, error)

// AfterChangeHook runs after a successful create or update. previousDoc is
// set for update. Side effect only.
type AfterChangeHook func(ctx context.Context, doc domain.Document, previousDoc domain.Document, hc HookContext) error

// BeforeReadHook runs once per returned document on find and findById,
// after access filtering. It must preserve the document's id.
type BeforeReadHook func(ctx context.Context, doc domain.Document, hc HookContext) (domain.Document, error)

// Hooks holds the single hook slot per lifecycle point. There is no hook
// chaining and no hook point for delete.
type Hooks struct {
	BeforeChange BeforeChangeHook
	AfterChange  AfterChangeHook
	BeforeRead   BeforeReadHook
}

// Collection is the static definition of a named document set. Built once
// at startup and never mutated afterwards.
type Collection struct {
	Name       string
	Fields     []Field
	Access     AccessRules
	Hooks      Hooks
	Timestamps bool
}

// Field returns the field definition with the given name, or nil.
func (c *Collection) Field(name string) *Field {
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			return &c.Fields[i]
		}
	}
	return nil
}
