package models

import "time"

// Format describes which representation a payload's content is in.
type Format string

const (
	// FormatDecrypted means Content carries the plaintext body.
	FormatDecrypted Format = "decrypted"

	// FormatEncrypted means Ciphertext carries the encrypted body and
	// Content must be ignored.
	FormatEncrypted Format = "encrypted"

	// FormatDeleted means the payload is a tombstone with no body at all.
	FormatDeleted Format = "deleted"
)

// Payload is an immutable snapshot of one record at one point in time.
// A payload is never modified after construction; every "change" goes
// through one of the With* helpers, which return a new value sharing the
// same UUID. UUID identity is the merge key across collections.
type Payload struct {
	// UUID is the stable identity of the record, unique within a collection.
	UUID string `json:"uuid"`

	// ContentType discriminates polymorphic behavior (conflict strategy
	// selection, load priority).
	ContentType ContentType `json:"content_type"`

	// Content is the decrypted body. Only meaningful when Format is
	// FormatDecrypted.
	Content Content `json:"content,omitempty"`

	// Ciphertext is the encrypted body. Only meaningful when Format is
	// FormatEncrypted.
	Ciphertext string `json:"ciphertext,omitempty"`

	// Format states which of Content/Ciphertext is authoritative.
	Format Format `json:"format"`

	// CreatedAt is the record's creation timestamp.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the logical clock used for most-recent-wins comparisons.
	UpdatedAt time.Time `json:"updated_at"`

	// Deleted is the tombstone flag.
	Deleted bool `json:"deleted,omitempty"`

	// Dirty marks the payload as having unsynced local changes.
	Dirty bool `json:"dirty,omitempty"`

	// DirtyCount increments on every local mutation. A non-zero count after
	// an in-flight sync popped the item means it was edited mid-sync and
	// must be picked up by the next cycle.
	DirtyCount int `json:"dirty_count,omitempty"`

	// DirtiedAt records when the payload was last marked dirty. The
	// pre-sync-save checkpoint compares against it.
	DirtiedAt time.Time `json:"dirtied_at,omitempty"`

	// LastSyncBegan and LastSyncEnded bracket the most recent sync attempt
	// that included this payload.
	LastSyncBegan time.Time `json:"last_sync_began,omitempty"`
	LastSyncEnded time.Time `json:"last_sync_ended,omitempty"`

	// Source tags the provenance of this snapshot.
	Source Source `json:"-"`
}

// References returns the payload's outgoing edges.
func (p Payload) References() []Reference {
	return p.Content.References
}

// Ref returns the edge other payloads would use to reference this payload.
func (p Payload) Ref() Reference {
	return Reference{UUID: p.UUID, ContentType: p.ContentType}
}

// copyWith deep-copies content so derived payloads never alias the original.
func (p Payload) copyWith(mutate func(*Payload)) Payload {
	out := p
	out.Content = p.Content.Copy()
	mutate(&out)
	return out
}

// WithUUID returns a copy carrying a different identity.
func (p Payload) WithUUID(uuid string) Payload {
	return p.copyWith(func(c *Payload) { c.UUID = uuid })
}

// WithContent returns a copy with the given decrypted content.
func (p Payload) WithContent(content Content) Payload {
	return p.copyWith(func(c *Payload) {
		c.Content = content.Copy()
		c.Format = FormatDecrypted
	})
}

// WithReferences returns a copy whose content carries the given edges.
func (p Payload) WithReferences(refs []Reference) Payload {
	return p.copyWith(func(c *Payload) {
		c.Content.References = append([]Reference(nil), refs...)
	})
}

// WithConflictOf returns a copy whose content is marked as a rendered
// duplicate of the given uuid.
func (p Payload) WithConflictOf(uuid string) Payload {
	return p.copyWith(func(c *Payload) { c.Content.ConflictOf = uuid })
}

// WithCiphertext returns a copy in encrypted form. The decrypted content is
// dropped so ciphertext and plaintext never travel together.
func (p Payload) WithCiphertext(ciphertext string) Payload {
	return p.copyWith(func(c *Payload) {
		c.Ciphertext = ciphertext
		c.Content = Content{}
		c.Format = FormatEncrypted
	})
}

// WithUpdatedAt returns a copy with the given logical clock value.
func (p Payload) WithUpdatedAt(t time.Time) Payload {
	return p.copyWith(func(c *Payload) { c.UpdatedAt = t })
}

// WithDeleted returns a copy with the tombstone flag set accordingly.
func (p Payload) WithDeleted(deleted bool) Payload {
	return p.copyWith(func(c *Payload) { c.Deleted = deleted })
}

// WithDirty returns a copy with the dirty flag set accordingly. Clearing the
// flag does not touch the counter; the orchestrator resets it explicitly.
func (p Payload) WithDirty(dirty bool) Payload {
	return p.copyWith(func(c *Payload) { c.Dirty = dirty })
}

// WithDirtiedAt returns a copy with the given dirtied timestamp.
func (p Payload) WithDirtiedAt(t time.Time) Payload {
	return p.copyWith(func(c *Payload) { c.DirtiedAt = t })
}

// WithSource returns a copy tagged with the given provenance.
func (p Payload) WithSource(source Source) Payload {
	return p.copyWith(func(c *Payload) { c.Source = source })
}

// WithLastSyncBegan returns a copy stamped with a sync start time.
func (p Payload) WithLastSyncBegan(t time.Time) Payload {
	return p.copyWith(func(c *Payload) { c.LastSyncBegan = t })
}

// WithLastSyncEnded returns a copy stamped with a sync completion time.
func (p Payload) WithLastSyncEnded(t time.Time) Payload {
	return p.copyWith(func(c *Payload) { c.LastSyncEnded = t })
}

// GreaterOfTimes returns the later of two timestamps.
func GreaterOfTimes(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
