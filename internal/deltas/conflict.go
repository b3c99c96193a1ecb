package deltas

import (
	"fmt"

	"github.com/leaflock/leaflock/models"
)

// ConflictDelta resolves exactly one base/apply pair sharing a uuid. The
// strategy is chosen by the injected registry; applying it yields zero or
// more output payloads, one of which may be a rendered conflict duplicate.
type ConflictDelta struct {
	payloadsDelta
	basePayload  models.Payload
	applyPayload models.Payload
	source       models.Source
	registry     *StrategyRegistry
}

// NewConflictDelta builds a conflict delta. baseCollection is consulted for
// reference patching when a strategy duplicates a payload; source tags the
// resulting collection.
func NewConflictDelta(
	baseCollection models.Collection,
	basePayload models.Payload,
	applyPayload models.Payload,
	source models.Source,
	registry *StrategyRegistry,
) *ConflictDelta {
	return &ConflictDelta{
		payloadsDelta: payloadsDelta{baseCollection: baseCollection},
		basePayload:   basePayload,
		applyPayload:  applyPayload,
		source:        source,
		registry:      registry,
	}
}

// WithUUIDGenerator overrides the identity generator used for duplicates.
func (d *ConflictDelta) WithUUIDGenerator(generate func() string) *ConflictDelta {
	d.generateUUID = generate
	return d
}

// ResultingCollection implements Delta.
func (d *ConflictDelta) ResultingCollection() models.Collection {
	strategy := d.registry.StrategyFor(d.basePayload, d.applyPayload)
	return models.NewCollection(d.source, d.payloadsByHandlingStrategy(strategy)...)
}

func (d *ConflictDelta) payloadsByHandlingStrategy(strategy ConflictStrategy) []models.Payload {
	switch strategy {
	case StrategyKeepLeft:
		return []models.Payload{d.basePayload}

	case StrategyKeepRight:
		return []models.Payload{d.applyPayload}

	case StrategyKeepLeftDuplicateRight:
		updatedAt := models.GreaterOfTimes(d.basePayload.UpdatedAt, d.applyPayload.UpdatedAt)
		left := d.basePayload.
			WithUpdatedAt(updatedAt).
			WithDirty(true)
		rights := PayloadsByDuplicating(d.applyPayload, d.baseCollection, true, d.generateUUID)
		return append([]models.Payload{left}, rights...)

	case StrategyDuplicateLeftKeepRight:
		lefts := PayloadsByDuplicating(d.basePayload, d.baseCollection, false, d.generateUUID)
		return append(lefts, d.applyPayload)

	case StrategyKeepLeftMergeRefs:
		refs := models.UniqueReferences(d.basePayload.References(), d.applyPayload.References())
		updatedAt := models.GreaterOfTimes(d.basePayload.UpdatedAt, d.applyPayload.UpdatedAt)
		merged := d.basePayload.
			WithReferences(refs).
			WithUpdatedAt(updatedAt).
			WithDirty(true)
		return []models.Payload{merged}

	default:
		// An unregistered strategy value is an engine defect, not a
		// recoverable condition.
		panic(fmt.Sprintf("deltas: unhandled conflict strategy %d", strategy))
	}
}
