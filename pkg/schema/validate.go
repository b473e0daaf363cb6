package schema

import (
	"fmt"
	"regexp"
	"time"

	"github.com/adfharrison1/go-cms/pkg/domain"
)

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate checks a candidate document against the field list and returns
// the normalized document together with every constraint violation found.
// The schema is permissive: fields in the candidate that are not in the
// field list (system fields included) pass through unchanged.
//
// For updates the candidate must be the existing document merged with the
// patch, so cross-field requireds still hold after a partial update.
func Validate(fields []Field, candidate domain.Document) (domain.Document, []string) {
	normalized := candidate.Copy()
	if normalized == nil {
		normalized = domain.Document{}
	}
	var errs []string

	for _, field := range fields {
		value, present := normalized[field.Name]
		if !present || value == nil {
			if field.DefaultValue != nil {
				normalized[field.Name] = field.DefaultValue
				continue
			}
			if field.Required {
				errs = append(errs, fmt.Sprintf("%s: value is required", field.Name))
			}
			continue
		}

		errs = append(errs, checkField(field, value)...)
	}

	return normalized, errs
}

// checkField applies the type-coercion check and the kind-specific
// constraints for a single present value.
func checkField(field Field, value interface{}) []string {
	if field.Multiple && (field.Type == FieldSelect || field.Type == FieldRelation) {
		items, ok := value.([]interface{})
		if !ok {
			return []string{fmt.Sprintf("%s: expected an array of values", field.Name)}
		}
		var errs []string
		for i, item := range items {
			for _, msg := range checkScalar(field, item) {
				errs = append(errs, fmt.Sprintf("%s[%d]%s", field.Name, i, msg))
			}
		}
		return errs
	}

	var errs []string
	for _, msg := range checkScalar(field, value) {
		errs = append(errs, field.Name+msg)
	}
	return errs
}

// checkScalar validates one scalar value against the field's kind. Messages
// come back without the field name prefix so array elements can be indexed.
func checkScalar(field Field, value interface{}) []string {
	switch field.Type {
	case FieldText, FieldRichText:
		str, ok := value.(string)
		if !ok {
			return []string{": expected a string"}
		}
		var errs []string
		if field.MinLength > 0 && len(str) < field.MinLength {
			errs = append(errs, fmt.Sprintf(": must be at least %d characters", field.MinLength))
		}
		if field.MaxLength > 0 && len(str) > field.MaxLength {
			errs = append(errs, fmt.Sprintf(": must be at most %d characters", field.MaxLength))
		}
		return errs

	case FieldNumber:
		num, ok := domain.ToFloat64(value)
		if !ok {
			return []string{": expected a number"}
		}
		var errs []string
		if field.Min != nil && num < *field.Min {
			errs = append(errs, fmt.Sprintf(": must be at least %v", *field.Min))
		}
		if field.Max != nil && num > *field.Max {
			errs = append(errs, fmt.Sprintf(": must be at most %v", *field.Max))
		}
		return errs

	case FieldEmail:
		str, ok := value.(string)
		if !ok {
			return []string{": expected a string"}
		}
		if !emailShape.MatchString(str) {
			return []string{": invalid email address"}
		}
		return nil

	case FieldSelect:
		str, ok := value.(string)
		if !ok {
			return []string{": expected a string"}
		}
		for _, option := range field.Options {
			if str == option {
				return nil
			}
		}
		return []string{fmt.Sprintf(": %q is not a valid option", str)}

	case FieldCheckbox:
		if _, ok := value.(bool); !ok {
			return []string{": expected a boolean"}
		}
		return nil

	case FieldDate:
		switch v := value.(type) {
		case time.Time:
			return nil
		case string:
			if _, err := time.Parse(time.RFC3339, v); err == nil {
				return nil
			}
			if _, err := time.Parse("2006-01-02", v); err == nil {
				return nil
			}
			return []string{": expected an ISO-8601 date"}
		default:
			return []string{": expected a date"}
		}

	case FieldRelation:
		str, ok := value.(string)
		if !ok || str == "" {
			return []string{": expected a document id"}
		}
		return nil

	default:
		return []string{fmt.Sprintf(": unsupported field type %q", field.Type)}
	}
}
