package models

// Collection is an immutable, indexed snapshot set of payloads.
//
// Two indexes are maintained: uuid → payload for O(1) lookup, and a reverse
// reference index uuid → referrer uuids so duplication logic can find and
// patch referencing payloads in O(references) instead of scanning the whole
// collection. The reverse index is an invariant-preserving cache rebuilt on
// every construction; no method mutates an existing collection.
type Collection struct {
	source      Source
	order       []string
	byUUID      map[string]Payload
	referencing map[string][]string
}

// NewCollection builds a collection from payloads with the given provenance
// tag. At most one payload per uuid is kept; a later payload with an already
// seen uuid replaces the earlier one in place, preserving its position in
// the iteration order.
func NewCollection(source Source, payloads ...Payload) Collection {
	c := Collection{
		source:      source,
		byUUID:      make(map[string]Payload, len(payloads)),
		referencing: make(map[string][]string),
	}
	for _, p := range payloads {
		if _, exists := c.byUUID[p.UUID]; !exists {
			c.order = append(c.order, p.UUID)
		}
		c.byUUID[p.UUID] = p
	}
	for _, uuid := range c.order {
		for _, ref := range c.byUUID[uuid].References() {
			c.referencing[ref.UUID] = append(c.referencing[ref.UUID], uuid)
		}
	}
	return c
}

// Source returns the provenance tag the collection was constructed with.
func (c Collection) Source() Source {
	return c.source
}

// Size returns the number of payloads in the collection.
func (c Collection) Size() int {
	return len(c.order)
}

// PayloadFor looks up the payload with the given uuid.
func (c Collection) PayloadFor(uuid string) (Payload, bool) {
	p, ok := c.byUUID[uuid]
	return p, ok
}

// All returns the payloads in deterministic insertion order. The returned
// slice is a copy; callers may not reach the collection's internals.
func (c Collection) All() []Payload {
	out := make([]Payload, 0, len(c.order))
	for _, uuid := range c.order {
		out = append(out, c.byUUID[uuid])
	}
	return out
}

// PayloadsReferencing returns the payloads elsewhere in the collection whose
// references include the given payload's (uuid, content_type) edge.
func (c Collection) PayloadsReferencing(p Payload) []Payload {
	var out []Payload
	for _, referrer := range c.referencing[p.UUID] {
		candidate := c.byUUID[referrer]
		if ContainsReference(candidate.References(), p.Ref()) {
			out = append(out, candidate)
		}
	}
	return out
}

// WithPayloads returns a new collection equal to the receiver plus the given
// payloads, replacing any same-uuid entries. The receiver is unchanged.
func (c Collection) WithPayloads(payloads ...Payload) Collection {
	merged := make([]Payload, 0, len(c.order)+len(payloads))
	merged = append(merged, c.All()...)
	merged = append(merged, payloads...)
	return NewCollection(c.source, merged...)
}

// CollectionSet groups several collections by source so a delta can look up
// related payloads beyond its own base/apply pair.
type CollectionSet struct {
	collections map[Source]Collection
}

// NewCollectionSet indexes the given collections by their source tag.
func NewCollectionSet(collections ...Collection) CollectionSet {
	set := CollectionSet{collections: make(map[Source]Collection, len(collections))}
	for _, c := range collections {
		set.collections[c.source] = c
	}
	return set
}

// CollectionForSource returns the member collection with the given tag.
func (s CollectionSet) CollectionForSource(source Source) (Collection, bool) {
	c, ok := s.collections[source]
	return c, ok
}
