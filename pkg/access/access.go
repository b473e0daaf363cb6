// Package access evaluates declarative per-operation access rules into
// allow/deny/filtered-allow decisions and merges residual filters into
// caller-supplied query predicates.
package access

import (
	"context"

	"github.com/adfharrison1/go-cms/pkg/domain"
)

// Context is the ephemeral input to an access rule. Data is the candidate
// write payload (create/update); Doc is the existing document
// (update/delete). Never persisted.
type Context struct {
	User *domain.User
	Data domain.Document
	Doc  domain.Document
}

// Rule decides whether an operation may proceed. Rules may perform I/O; the
// evaluator awaits completion before the operation continues.
type Rule func(ctx context.Context, ac Context) (Decision, error)

type decisionKind int

const (
	kindAllow decisionKind = iota
	kindDeny
	kindAllowWhere
)

// Decision is the three-way outcome of a rule: allow, deny, or allow
// restricted to documents matching a residual filter.
type Decision struct {
	kind   decisionKind
	filter domain.Where
}

// Allow grants the operation unconditionally.
func Allow() Decision {
	return Decision{kind: kindAllow}
}

// Deny refuses the operation.
func Deny() Decision {
	return Decision{kind: kindDeny}
}

// AllowWhere grants the operation for documents matching the filter only.
func AllowWhere(filter domain.Where) Decision {
	return Decision{kind: kindAllowWhere, filter: filter}
}

// Allowed reports whether the operation may proceed at all.
func (d Decision) Allowed() bool {
	return d.kind != kindDeny
}

// Filter returns the residual filter and whether one is present.
func (d Decision) Filter() (domain.Where, bool) {
	if d.kind != kindAllowWhere {
		return nil, false
	}
	return d.filter, true
}

// Evaluate runs the rule against the context. A nil rule means the
// operation is public: Allow for every context. Rule errors propagate as
// operation failures, never as an implicit deny.
func Evaluate(ctx context.Context, rule Rule, ac Context) (Decision, error) {
	if rule == nil {
		return Allow(), nil
	}
	return rule(ctx, ac)
}

// MergeWhere combines a caller-supplied filter with a residual filter from
// an access rule via logical AND. Either side may be nil.
func MergeWhere(caller, residual domain.Where) domain.Where {
	if len(residual) == 0 {
		return caller
	}
	if len(caller) == 0 {
		return residual
	}
	return domain.Where{domain.CombinatorAnd: []domain.Where{caller, residual}}
}
