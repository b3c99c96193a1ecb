// Package deltas implements the pure merge computations of the sync core.
//
// A delta takes a base collection (the authoritative current state) and an
// apply collection (payloads one source proposes to merge on top of it) and
// computes the collection that would result, without mutating either input.
// The consumer decides what to do with the result. Conflicting same-uuid
// pairs are resolved through an injected per-content-type strategy registry.
package deltas

import "github.com/leaflock/leaflock/models"

// Delta computes a resulting collection from a base and an apply collection.
// Implementations are pure with respect to their inputs.
type Delta interface {
	ResultingCollection() models.Collection
}

// payloadsDelta carries the state shared by all delta implementations.
type payloadsDelta struct {
	baseCollection  models.Collection
	applyCollection models.Collection
	related         models.CollectionSet

	// generateUUID is the only external capability a delta may call.
	// Injectable for deterministic tests; nil means NewUUID.
	generateUUID func() string
}

// findBasePayload looks up a payload by uuid in the base collection only.
func (d payloadsDelta) findBasePayload(uuid string) (models.Payload, bool) {
	return d.baseCollection.PayloadFor(uuid)
}

// findRelatedPayload looks up a payload in the related collection tagged
// with the given source.
func (d payloadsDelta) findRelatedPayload(uuid string, source models.Source) (models.Payload, bool) {
	collection, ok := d.related.CollectionForSource(source)
	if !ok {
		return models.Payload{}, false
	}
	return collection.PayloadFor(uuid)
}
