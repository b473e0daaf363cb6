package domain

import (
	"reflect"
	"strings"
)

// Where is the predicate language used for filtering documents.
//
// Each key is either a field name mapped to a literal (equality) or to an
// operator object, or one of the combinators "AND"/"OR" mapped to a slice of
// nested Where clauses.
type Where map[string]interface{}

// Combinator keys within a Where.
const (
	CombinatorAnd = "AND"
	CombinatorOr  = "OR"
)

// Operator keys within an operator object.
const (
	OpEquals     = "equals"
	OpNot        = "not"
	OpIn         = "in"
	OpNotIn      = "notIn"
	OpLt         = "lt"
	OpLte        = "lte"
	OpGt         = "gt"
	OpGte        = "gte"
	OpContains   = "contains"
	OpStartsWith = "startsWith"
	OpEndsWith   = "endsWith"
)

// Matches reports whether the document satisfies the predicate. A nil or
// empty Where matches every document.
func (w Where) Matches(doc Document) bool {
	for key, expected := range w {
		switch key {
		case CombinatorAnd:
			for _, clause := range toWhereSlice(expected) {
				if !clause.Matches(doc) {
					return false
				}
			}
		case CombinatorOr:
			clauses := toWhereSlice(expected)
			if len(clauses) == 0 {
				continue
			}
			matched := false
			for _, clause := range clauses {
				if clause.Matches(doc) {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		default:
			if !matchField(doc[key], expected) {
				return false
			}
		}
	}
	return true
}

// toWhereSlice normalizes the combinator payload shapes that survive JSON
// decoding ([]interface{} of maps) or are built directly in Go ([]Where).
func toWhereSlice(value interface{}) []Where {
	switch v := value.(type) {
	case []Where:
		return v
	case []interface{}:
		out := make([]Where, 0, len(v))
		for _, item := range v {
			if m, ok := toStringMap(item); ok {
				out = append(out, Where(m))
			}
		}
		return out
	default:
		return nil
	}
}

func toStringMap(value interface{}) (map[string]interface{}, bool) {
	switch v := value.(type) {
	case map[string]interface{}:
		return v, true
	case Where:
		return v, true
	case Document:
		return v, true
	default:
		return nil, false
	}
}

// matchField evaluates one field condition. A plain literal means equality;
// a map is an operator object.
func matchField(actual, expected interface{}) bool {
	cond, ok := toStringMap(expected)
	if !ok {
		return ValuesEqual(actual, expected)
	}

	for op, operand := range cond {
		switch op {
		case OpEquals:
			if !ValuesEqual(actual, operand) {
				return false
			}
		case OpNot:
			if ValuesEqual(actual, operand) {
				return false
			}
		case OpIn:
			if !containsValue(operand, actual) {
				return false
			}
		case OpNotIn:
			if containsValue(operand, actual) {
				return false
			}
		case OpLt:
			if !compareValues(actual, operand, func(c int) bool { return c < 0 }) {
				return false
			}
		case OpLte:
			if !compareValues(actual, operand, func(c int) bool { return c <= 0 }) {
				return false
			}
		case OpGt:
			if !compareValues(actual, operand, func(c int) bool { return c > 0 }) {
				return false
			}
		case OpGte:
			if !compareValues(actual, operand, func(c int) bool { return c >= 0 }) {
				return false
			}
		case OpContains:
			if !stringOp(actual, operand, strings.Contains) {
				return false
			}
		case OpStartsWith:
			if !stringOp(actual, operand, strings.HasPrefix) {
				return false
			}
		case OpEndsWith:
			if !stringOp(actual, operand, strings.HasSuffix) {
				return false
			}
		default:
			// Unknown operator never matches.
			return false
		}
	}
	return true
}

// ValuesEqual compares two values, tolerating the numeric type mismatches
// that JSON decoding introduces. Uncomparable kinds (slices, maps) fall
// back to deep equality instead of panicking; filters arrive from
// untrusted callers and documents may hold array-valued fields.
func ValuesEqual(actual, expected interface{}) bool {
	if actual == nil && expected == nil {
		return true
	}
	if actual == nil || expected == nil {
		return false
	}

	if actualNum, ok1 := ToFloat64(actual); ok1 {
		if expectedNum, ok2 := ToFloat64(expected); ok2 {
			return actualNum == expectedNum
		}
	}

	if !reflect.TypeOf(actual).Comparable() || !reflect.TypeOf(expected).Comparable() {
		return reflect.DeepEqual(actual, expected)
	}

	return actual == expected
}

// containsValue reports whether the operand slice contains the actual
// value. Operands decoded from JSON are []interface{}; rules written in Go
// may supply typed slices, so any slice or array kind is accepted.
func containsValue(operand, actual interface{}) bool {
	rv := reflect.ValueOf(operand)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return false
	}
	for i := 0; i < rv.Len(); i++ {
		if ValuesEqual(actual, rv.Index(i).Interface()) {
			return true
		}
	}
	return false
}

// compareValues orders two values when they are both numeric or both
// strings; mixed or unordered types never satisfy a comparison.
func compareValues(actual, operand interface{}, accept func(int) bool) bool {
	if actualNum, ok1 := ToFloat64(actual); ok1 {
		if operandNum, ok2 := ToFloat64(operand); ok2 {
			switch {
			case actualNum < operandNum:
				return accept(-1)
			case actualNum > operandNum:
				return accept(1)
			default:
				return accept(0)
			}
		}
		return false
	}

	actualStr, ok1 := actual.(string)
	operandStr, ok2 := operand.(string)
	if !ok1 || !ok2 {
		return false
	}
	return accept(strings.Compare(actualStr, operandStr))
}

func stringOp(actual, operand interface{}, fn func(string, string) bool) bool {
	actualStr, ok1 := actual.(string)
	operandStr, ok2 := operand.(string)
	if !ok1 || !ok2 {
		return false
	}
	return fn(actualStr, operandStr)
}

// ToFloat64 converts various numeric types to float64 for comparison
func ToFloat64(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}
