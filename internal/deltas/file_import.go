package deltas

import (
	"time"

	"github.com/leaflock/leaflock/models"
)

// FileImportDelta merges an externally supplied payload set into current
// state. Imported payloads conflict against the freshest counterpart
// available: a duplicate already produced earlier in this import batch, a
// same-uuid result from this batch, or the base collection entry. Every
// output payload comes back dirty and undeleted so the import is fully
// re-synced.
type FileImportDelta struct {
	payloadsDelta
	registry *StrategyRegistry

	// now stamps the dirtied date on output payloads; nil means time.Now.
	now func() time.Time
}

// NewFileImportDelta builds the delta with current local state as base and
// the imported payloads as apply.
func NewFileImportDelta(baseCollection, applyCollection models.Collection, registry *StrategyRegistry) *FileImportDelta {
	return &FileImportDelta{
		payloadsDelta: payloadsDelta{
			baseCollection:  baseCollection,
			applyCollection: applyCollection,
		},
		registry: registry,
	}
}

// WithUUIDGenerator overrides the identity generator used for duplicates.
func (d *FileImportDelta) WithUUIDGenerator(generate func() string) *FileImportDelta {
	d.generateUUID = generate
	return d
}

// WithClock overrides the clock used for dirtied dates.
func (d *FileImportDelta) WithClock(now func() time.Time) *FileImportDelta {
	d.now = now
	return d
}

// ResultingCollection implements Delta.
func (d *FileImportDelta) ResultingCollection() models.Collection {
	now := time.Now
	if d.now != nil {
		now = d.now
	}

	var results []models.Payload
	for _, payload := range d.applyCollection.All() {
		for _, handled := range d.payloadsByHandlingPayload(payload, results) {
			results = append(results, handled.
				WithDirty(true).
				WithDirtiedAt(now()).
				WithDeleted(false))
		}
	}
	return models.NewCollection(models.SourceFileImport, results...)
}

// payloadsByHandlingPayload resolves one imported payload against the most
// recent counterpart known for its uuid.
func (d *FileImportDelta) payloadsByHandlingPayload(
	payload models.Payload,
	currentResults []models.Payload,
) []models.Payload {
	current, found := d.currentValueFor(payload.UUID, currentResults)
	if !found {
		// Pure creation.
		return []models.Payload{payload}
	}

	conflict := NewConflictDelta(d.baseCollection, current, payload, models.SourceFileImport, d.registry)
	conflict.generateUUID = d.generateUUID
	return conflict.ResultingCollection().All()
}

// currentValueFor picks the counterpart for an imported uuid, in priority
// order: the most recent duplicate whose conflict_of equals the uuid (from
// this batch first, then from the base collection — a duplicate rendered by
// an earlier import is the latest value and makes re-imports idempotent),
// then the most recent same-uuid batch result, then the base entry.
func (d *FileImportDelta) currentValueFor(uuid string, currentResults []models.Payload) (models.Payload, bool) {
	for i := len(currentResults) - 1; i >= 0; i-- {
		if currentResults[i].Content.ConflictOf == uuid {
			return currentResults[i], true
		}
	}
	basePayloads := d.baseCollection.All()
	for i := len(basePayloads) - 1; i >= 0; i-- {
		if basePayloads[i].Content.ConflictOf == uuid {
			return basePayloads[i], true
		}
	}
	for i := len(currentResults) - 1; i >= 0; i-- {
		if currentResults[i].UUID == uuid {
			return currentResults[i], true
		}
	}
	return d.findBasePayload(uuid)
}
