package deltas

import (
	"github.com/leaflock/leaflock/models"
)

// ConflictStrategy is the enumerated merge policy applied to a same-uuid
// base/apply pair. Any value outside this set is an engine defect.
type ConflictStrategy int

const (
	// StrategyKeepLeft discards the apply payload.
	StrategyKeepLeft ConflictStrategy = iota + 1

	// StrategyKeepRight discards the base payload.
	StrategyKeepRight

	// StrategyKeepLeftDuplicateRight keeps the base payload and preserves
	// the apply payload as a rendered conflict duplicate under a new uuid.
	StrategyKeepLeftDuplicateRight

	// StrategyDuplicateLeftKeepRight preserves the base payload under a new
	// uuid and accepts the apply payload unchanged.
	StrategyDuplicateLeftKeepRight

	// StrategyKeepLeftMergeRefs keeps the base payload with the union of
	// both payloads' references.
	StrategyKeepLeftMergeRefs
)

// StrategyFunc decides which strategy resolves a conflict between base and
// apply. It must be pure: same inputs, same strategy.
type StrategyFunc func(base, apply models.Payload) ConflictStrategy

// StrategyRegistry selects the conflict strategy for a pair by the base
// payload's content type. Content types without a registered policy fall
// back to the no-data-loss default.
type StrategyRegistry struct {
	byType   map[models.ContentType]StrategyFunc
	fallback StrategyFunc
}

// NewStrategyRegistry returns a registry with the built-in policies:
//
//   - notes and unregistered types: tombstones follow the apply side, equal
//     contents follow the apply side's metadata, diverged contents keep the
//     base and duplicate the apply payload (nothing is ever lost);
//   - tags: as above, except a divergence confined to references is merged
//     with StrategyKeepLeftMergeRefs;
//   - items keys: never discarded and never duplicated — the base copy wins
//     unless it is itself a tombstone;
//   - user preferences, components, themes: the apply side wins outright,
//     these behave as singletons that follow the most recent writer.
func NewStrategyRegistry() *StrategyRegistry {
	r := &StrategyRegistry{
		byType:   make(map[models.ContentType]StrategyFunc),
		fallback: defaultStrategy,
	}
	r.Register(models.ContentTypeTag, tagStrategy)
	r.Register(models.ContentTypeItemsKey, itemsKeyStrategy)
	r.Register(models.ContentTypeUserPreferences, applyWinsStrategy)
	r.Register(models.ContentTypeComponent, applyWinsStrategy)
	r.Register(models.ContentTypeTheme, applyWinsStrategy)
	return r
}

// Register installs fn as the policy for the given content type, replacing
// any previous registration.
func (r *StrategyRegistry) Register(contentType models.ContentType, fn StrategyFunc) {
	r.byType[contentType] = fn
}

// StrategyFor returns the strategy resolving the given pair.
func (r *StrategyRegistry) StrategyFor(base, apply models.Payload) ConflictStrategy {
	if fn, ok := r.byType[base.ContentType]; ok {
		return fn(base, apply)
	}
	return r.fallback(base, apply)
}

func defaultStrategy(base, apply models.Payload) ConflictStrategy {
	if isReimportOfOrigin(base, apply) {
		return StrategyKeepLeft
	}
	if base.Deleted || apply.Deleted {
		return StrategyKeepRight
	}
	if base.Content.Equal(apply.Content) {
		// Same content; taking the apply side keeps the fresher metadata.
		return StrategyKeepRight
	}
	return StrategyKeepLeftDuplicateRight
}

func tagStrategy(base, apply models.Payload) ConflictStrategy {
	if isReimportOfOrigin(base, apply) {
		return StrategyKeepLeft
	}
	if base.Deleted || apply.Deleted {
		return StrategyKeepRight
	}
	if base.Content.Equal(apply.Content) {
		return StrategyKeepRight
	}
	if referencesOnlyDivergence(base.Content, apply.Content) {
		return StrategyKeepLeftMergeRefs
	}
	return StrategyKeepLeftDuplicateRight
}

// isReimportOfOrigin detects a rendered duplicate conflicting with a fresh
// copy of the payload it was duplicated from. Keeping the duplicate makes
// repeated file imports idempotent: the prior result stands and no further
// duplicate is rendered.
func isReimportOfOrigin(base, apply models.Payload) bool {
	if base.Content.ConflictOf != apply.UUID {
		return false
	}
	stripped := base.Content.Copy()
	stripped.ConflictOf = apply.Content.ConflictOf
	return stripped.Equal(apply.Content)
}

func itemsKeyStrategy(base, apply models.Payload) ConflictStrategy {
	if base.Deleted {
		return StrategyKeepRight
	}
	return StrategyKeepLeft
}

func applyWinsStrategy(base, apply models.Payload) ConflictStrategy {
	return StrategyKeepRight
}

// referencesOnlyDivergence reports whether two contents differ in their
// reference lists and nowhere else.
func referencesOnlyDivergence(base, apply models.Content) bool {
	strippedBase := base.Copy()
	strippedBase.References = nil
	strippedApply := apply.Copy()
	strippedApply.References = nil
	return strippedBase.Equal(strippedApply)
}
