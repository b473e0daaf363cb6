// Package schema defines collection configuration: typed fields, access
// rules, lifecycle hooks, and the validator that checks candidate documents
// against a collection's field list.
package schema

// FieldType enumerates the supported field kinds.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldNumber   FieldType = "number"
	FieldEmail    FieldType = "email"
	FieldSelect   FieldType = "select"
	FieldCheckbox FieldType = "checkbox"
	FieldDate     FieldType = "date"
	FieldRelation FieldType = "relation"
	FieldRichText FieldType = "richtext"
)

// Valid reports whether the field type is one of the supported kinds.
func (ft FieldType) Valid() bool {
	switch ft {
	case FieldText, FieldNumber, FieldEmail, FieldSelect, FieldCheckbox,
		FieldDate, FieldRelation, FieldRichText:
		return true
	}
	return false
}

// Field describes one field of a collection.
type Field struct {
	Name         string
	Type         FieldType
	Required     bool
	Unique       bool
	DefaultValue interface{}

	// Text constraints.
	MinLength int
	MaxLength int

	// Number constraints. Nil means unbounded.
	Min *float64
	Max *float64

	// Select constraints.
	Options []string

	// Relation constraints. RelationTo names the target collection.
	RelationTo string

	// Multiple applies to select and relation fields: the value is an
	// array validated element-wise.
	Multiple bool
}
