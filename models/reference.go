package models

// Reference is a directed edge from one payload to another. Two references
// are considered the same edge when both UUID and ContentType match.
type Reference struct {
	UUID        string      `json:"uuid"`
	ContentType ContentType `json:"content_type"`
}

// ContainsReference reports whether refs already carries the given edge.
func ContainsReference(refs []Reference, ref Reference) bool {
	for _, r := range refs {
		if r == ref {
			return true
		}
	}
	return false
}

// UniqueReferences combines any number of reference lists into one,
// deduplicated by (UUID, ContentType) and preserving first-seen order.
func UniqueReferences(lists ...[]Reference) []Reference {
	var out []Reference
	seen := make(map[Reference]struct{})
	for _, list := range lists {
		for _, ref := range list {
			if _, ok := seen[ref]; ok {
				continue
			}
			seen[ref] = struct{}{}
			out = append(out, ref)
		}
	}
	return out
}
