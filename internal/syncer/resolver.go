package syncer

import (
	"github.com/leaflock/leaflock/internal/deltas"
	"github.com/leaflock/leaflock/models"
)

// responseResolver merges one server response with the payloads the
// operation already saved or was saving, against the live master
// collection. It produces the ordered collections to persist and map:
// retrieved remote changes (with in-flight edit conflicts resolved), save
// acknowledgements, and server-reported conflict resolutions.
type responseResolver struct {
	retrieved     []models.Payload
	saved         []models.Payload
	conflicts     []models.SyncConflict
	savedOrSaving models.Collection
	master        models.Collection
	registry      *deltas.StrategyRegistry
	generateUUID  func() string

	needsMoreSync bool
}

func newResponseResolver(
	retrieved []models.Payload,
	saved []models.Payload,
	conflicts []models.SyncConflict,
	savedOrSaving []models.Payload,
	master models.Collection,
	registry *deltas.StrategyRegistry,
	generateUUID func() string,
) *responseResolver {
	return &responseResolver{
		retrieved:     retrieved,
		saved:         saved,
		conflicts:     conflicts,
		savedOrSaving: models.NewCollection(models.SourcePreSyncSave, savedOrSaving...),
		master:        master,
		registry:      registry,
		generateUUID:  generateUUID,
	}
}

// Collections computes the resolution. Call once.
func (r *responseResolver) Collections() []models.Collection {
	return []models.Collection{
		r.retrievedCollection(),
		models.NewCollection(models.SourceRemoteSaved, r.saved...),
		r.conflictCollection(),
	}
}

// NeedsMoreSync reports whether the resolution produced dirty payloads that
// require another round-trip (conflict duplicates, preserved local edits).
func (r *responseResolver) NeedsMoreSync() bool {
	return r.needsMoreSync
}

// retrievedCollection applies remote changes. A retrieved payload whose
// local counterpart has unsynced edits (dirty, or part of the in-flight
// save) and differing content is routed through the conflict delta instead
// of overwriting the local copy.
func (r *responseResolver) retrievedCollection() models.Collection {
	var results []models.Payload
	for _, payload := range r.retrieved {
		current, exists := r.master.PayloadFor(payload.UUID)
		if !exists {
			results = append(results, payload)
			continue
		}

		_, inFlight := r.savedOrSaving.PayloadFor(payload.UUID)
		pendingLocalChanges := current.Dirty || inFlight
		if !pendingLocalChanges || current.Content.Equal(payload.Content) {
			results = append(results, payload)
			continue
		}

		delta := deltas.NewConflictDelta(r.master, current, payload, models.SourceRemoteRetrieved, r.registry).
			WithUUIDGenerator(r.generateUUID)
		for _, resolved := range delta.ResultingCollection().All() {
			results = append(results, resolved)
			if resolved.Dirty {
				r.needsMoreSync = true
			}
		}
	}
	return models.NewCollection(models.SourceRemoteRetrieved, results...)
}

// conflictCollection resolves server-reported conflicts: data conflicts go
// through the conflict delta with the local copy as base; uuid conflicts
// move the local copy to a new identity.
func (r *responseResolver) conflictCollection() models.Collection {
	var results []models.Payload
	for _, conflict := range r.conflicts {
		switch conflict.Type {
		case models.ConflictTypeDataConflict:
			if conflict.ServerItem == nil {
				continue
			}
			server := *conflict.ServerItem
			current, exists := r.master.PayloadFor(server.UUID)
			if !exists {
				results = append(results, server)
				continue
			}
			delta := deltas.NewConflictDelta(r.master, current, server, models.SourceConflictResolution, r.registry).
				WithUUIDGenerator(r.generateUUID)
			results = append(results, delta.ResultingCollection().All()...)
			r.needsMoreSync = true

		case models.ConflictTypeUUIDConflict:
			if conflict.UnsavedItem == nil {
				continue
			}
			current, exists := r.master.PayloadFor(conflict.UnsavedItem.UUID)
			if !exists {
				continue
			}
			results = append(results, deltas.PayloadsByAlternatingUUID(current, r.master, r.generateUUID)...)
			r.needsMoreSync = true
		}
	}
	return models.NewCollection(models.SourceConflictResolution, results...)
}
