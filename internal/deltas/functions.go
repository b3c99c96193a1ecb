package deltas

import (
	"time"

	"github.com/google/uuid"

	"github.com/leaflock/leaflock/models"
)

// NewUUID is the default identity generator for duplicated payloads.
func NewUUID() string {
	return uuid.NewString()
}

// PayloadsByDuplicating copies payload under a freshly generated uuid and
// returns every payload that changes as a result: the copy itself, followed
// by each payload in baseCollection that referenced the original, extended
// with an additional reference to the copy. Existing references are never
// removed. When isConflict is set, the copy's content is linked back to the
// original through conflict_of.
func PayloadsByDuplicating(
	payload models.Payload,
	baseCollection models.Collection,
	isConflict bool,
	generateUUID func() string,
) []models.Payload {
	if generateUUID == nil {
		generateUUID = NewUUID
	}

	copied := payload.
		WithUUID(generateUUID()).
		WithDirty(true).
		WithDirtiedAt(time.Time{}).
		WithLastSyncBegan(time.Time{})
	if isConflict {
		copied = copied.WithConflictOf(payload.UUID)
	}

	results := []models.Payload{copied}
	referencing := baseCollection.PayloadsReferencing(payload)
	results = append(results, payloadsByUpdatingReferences(referencing, []models.Reference{copied.Ref()}, nil)...)
	return results
}

// PayloadsByAlternatingUUID moves payload to a new uuid: the copy becomes
// dirty and takes over every incoming reference, while the original is
// tombstoned non-dirty (non-syncable, to be discarded) with its references
// emptied. Used when merging a local account into a remote one to avoid
// overwriting same-uuid server data.
func PayloadsByAlternatingUUID(
	payload models.Payload,
	baseCollection models.Collection,
	generateUUID func() string,
) []models.Payload {
	if generateUUID == nil {
		generateUUID = NewUUID
	}

	copied := payload.
		WithUUID(generateUUID()).
		WithDirty(true)

	results := []models.Payload{copied}

	referencing := baseCollection.PayloadsReferencing(payload)
	results = append(results, payloadsByUpdatingReferences(
		referencing,
		[]models.Reference{copied.Ref()},
		[]string{payload.UUID},
	)...)

	retired := payload.
		WithDeleted(true).
		WithDirty(false).
		WithReferences(nil)
	results = append(results, retired)

	return results
}

// payloadsByUpdatingReferences rewrites the reference lists of the given
// payloads: edges pointing at any uuid in removeUUIDs are dropped, then the
// add edges are appended. Each touched payload comes back dirty.
func payloadsByUpdatingReferences(
	payloads []models.Payload,
	add []models.Reference,
	removeUUIDs []string,
) []models.Payload {
	removed := make(map[string]struct{}, len(removeUUIDs))
	for _, id := range removeUUIDs {
		removed[id] = struct{}{}
	}

	results := make([]models.Payload, 0, len(payloads))
	for _, p := range payloads {
		refs := make([]models.Reference, 0, len(p.References())+len(add))
		for _, ref := range p.References() {
			if _, drop := removed[ref.UUID]; drop {
				continue
			}
			refs = append(refs, ref)
		}
		for _, ref := range add {
			if !models.ContainsReference(refs, ref) {
				refs = append(refs, ref)
			}
		}
		results = append(results, p.WithReferences(refs).WithDirty(true))
	}
	return results
}
