package deltas

import "github.com/leaflock/leaflock/models"

// OutOfSyncDelta reconciles a full remote snapshot against local state when
// the client suspects divergence. Every remote payload is taken verbatim so
// the server's metadata wins; where the local copy's content differs, the
// local copy is additionally duplicated so the divergent edit survives as an
// ordinary dirty payload. The duplicate deliberately carries no conflict_of
// link: it is a preserved edit, not a rendered conflict.
type OutOfSyncDelta struct {
	payloadsDelta
}

// NewOutOfSyncDelta builds the delta with local master state as base and the
// downloaded remote snapshot as apply.
func NewOutOfSyncDelta(baseCollection, applyCollection models.Collection) *OutOfSyncDelta {
	return &OutOfSyncDelta{payloadsDelta: payloadsDelta{
		baseCollection:  baseCollection,
		applyCollection: applyCollection,
	}}
}

// WithUUIDGenerator overrides the identity generator used for duplicates.
func (d *OutOfSyncDelta) WithUUIDGenerator(generate func() string) *OutOfSyncDelta {
	d.generateUUID = generate
	return d
}

// ResultingCollection implements Delta.
func (d *OutOfSyncDelta) ResultingCollection() models.Collection {
	var results []models.Payload
	for _, payload := range d.applyCollection.All() {
		// The remote payload is authoritative for content and metadata.
		results = append(results, payload)

		current, ok := d.findBasePayload(payload.UUID)
		if !ok {
			continue
		}
		if payload.Content.Equal(current.Content) {
			continue
		}
		results = append(results, PayloadsByDuplicating(current, d.baseCollection, false, d.generateUUID)...)
	}
	return models.NewCollection(models.SourceRemoteRetrieved, results...)
}
