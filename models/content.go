package models

import "reflect"

// Content is the decrypted body of a payload: arbitrary user fields plus the
// reference edges to other payloads. It is opaque to the server, which only
// ever sees its encrypted form.
type Content struct {
	// ConflictOf links a rendered conflict duplicate back to the uuid of
	// the payload it diverged from. Empty for ordinary payloads.
	ConflictOf string `json:"conflict_of,omitempty"`

	// References is the ordered set of edges to other payloads.
	// Duplicates by (uuid, content_type) are not permitted.
	References []Reference `json:"references,omitempty"`

	// Fields holds the type-specific decrypted body (title, text, color...).
	Fields map[string]any `json:"fields,omitempty"`
}

// Copy returns a deep copy. References and the fields map are cloned so a
// derived payload can never alias its ancestor's content.
func (c Content) Copy() Content {
	out := Content{ConflictOf: c.ConflictOf}
	if c.References != nil {
		out.References = make([]Reference, len(c.References))
		copy(out.References, c.References)
	}
	if c.Fields != nil {
		out.Fields = make(map[string]any, len(c.Fields))
		for k, v := range c.Fields {
			out.Fields[k] = v
		}
	}
	return out
}

// Equal reports structural equality of two content values. Reference order
// is not significant; payload metadata (timestamps, dirty state) is not part
// of content and therefore never participates.
func (c Content) Equal(other Content) bool {
	if c.ConflictOf != other.ConflictOf {
		return false
	}
	if len(c.References) != len(other.References) {
		return false
	}
	for _, ref := range c.References {
		if !ContainsReference(other.References, ref) {
			return false
		}
	}
	if len(c.Fields) != len(other.Fields) {
		return false
	}
	return reflect.DeepEqual(normalizeFields(c.Fields), normalizeFields(other.Fields))
}

// normalizeFields maps nil to an empty map so that "no fields" compares
// equal regardless of how the value was constructed.
func normalizeFields(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
