package domain

// Document represents a single document in a collection. Field values are
// whatever the schema allows; the core never interprets them beyond validation.
type Document map[string]interface{}

// System field names managed by the storage layer, never by callers.
const (
	FieldID        = "id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
	FieldDeletedAt = "deletedAt"
)

// ID returns the document's id, or "" if it has none yet.
func (d Document) ID() string {
	id, _ := d[FieldID].(string)
	return id
}

// Copy returns a shallow copy of the document.
func (d Document) Copy() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Merge returns a copy of the document with the patch applied on top.
// The id field is never overwritten by a patch.
func (d Document) Merge(patch Document) Document {
	out := d.Copy()
	if out == nil {
		out = make(Document, len(patch))
	}
	for k, v := range patch {
		if k == FieldID {
			continue
		}
		out[k] = v
	}
	return out
}

// User is the acting principal for an operation. Claims beyond id and role
// are carried opaquely for access rules and hooks to inspect.
type User struct {
	ID     string                 `json:"id"`
	Role   string                 `json:"role"`
	Claims map[string]interface{} `json:"claims,omitempty"`
}
