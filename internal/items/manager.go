// Package items owns the live application items: the decrypted payloads the
// rest of the client reads and edits. It tracks dirty state with a per-item
// edit counter so edits made while a payload is in flight are never lost,
// and it is the single place resolved sync collections are mapped back into.
package items

import (
	"context"
	"sync"
	"time"

	"github.com/leaflock/leaflock/internal/deltas"
	"github.com/leaflock/leaflock/models"
)

// Manager holds the live item set. All methods are safe for concurrent use.
type Manager struct {
	mu     sync.RWMutex
	order  []string
	byUUID map[string]models.Payload

	generateUUID func() string
	now          func() time.Time
}

// NewManager returns an empty item manager.
func NewManager() *Manager {
	return &Manager{
		byUUID:       make(map[string]models.Payload),
		generateUUID: deltas.NewUUID,
		now:          time.Now,
	}
}

// WithClock overrides the timestamp source.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// WithUUIDGenerator overrides the identity generator.
func (m *Manager) WithUUIDGenerator(generate func() string) *Manager {
	m.generateUUID = generate
	return m
}

// CreateItem adds a new decrypted item with a fresh identity and flags it
// dirty so the next sync cycle uploads it.
func (m *Manager) CreateItem(contentType models.ContentType, content models.Content) models.Payload {
	now := m.now()
	payload := models.Payload{
		UUID:        m.generateUUID(),
		ContentType: contentType,
		Content:     content,
		Format:      models.FormatDecrypted,
		CreatedAt:   now,
		Dirty:       true,
		DirtyCount:  1,
		DirtiedAt:   now,
		Source:      models.SourceLocalDirtied,
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store(payload)
	return payload
}

// SetItemContent replaces an item's content and flags it dirty, incrementing
// the edit counter. Returns false when the item does not exist.
func (m *Manager) SetItemContent(uuid string, content models.Content) (models.Payload, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.byUUID[uuid]
	if !ok {
		return models.Payload{}, false
	}
	updated := current.WithContent(content).
		WithDirty(true).
		WithDirtiedAt(m.now()).
		WithSource(models.SourceLocalDirtied)
	updated.DirtyCount = current.DirtyCount + 1
	m.store(updated)
	return updated, true
}

// DeleteItem tombstones an item: it stays live and dirty until a sync cycle
// acknowledges the deletion, at which point mapping removes it.
func (m *Manager) DeleteItem(uuid string) (models.Payload, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.byUUID[uuid]
	if !ok {
		return models.Payload{}, false
	}
	deleted := current.WithDeleted(true).
		WithDirty(true).
		WithDirtiedAt(m.now()).
		WithSource(models.SourceLocalDirtied)
	deleted.DirtyCount = current.DirtyCount + 1
	m.store(deleted)
	return deleted, true
}

// ItemFor returns the live item with the given uuid.
func (m *Manager) ItemFor(uuid string) (models.Payload, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payload, ok := m.byUUID[uuid]
	return payload, ok
}

// MasterCollection snapshots all live items in insertion order.
func (m *Manager) MasterCollection() models.Collection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payloads := make([]models.Payload, 0, len(m.order))
	for _, uuid := range m.order {
		payloads = append(payloads, m.byUUID[uuid])
	}
	return models.NewCollection(models.SourceLocalRetrieved, payloads...)
}

// DirtyItems returns the items currently flagged dirty, in insertion order.
func (m *Manager) DirtyItems() []models.Payload {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var dirty []models.Payload
	for _, uuid := range m.order {
		if p := m.byUUID[uuid]; p.Dirty {
			dirty = append(dirty, p)
		}
	}
	return dirty
}

// PopDirtyItems returns the dirty items and resets each one's edit counter,
// atomically with the pop. The dirty flag itself stays set: only a mapped
// save acknowledgement clears it, and only when the counter is still zero at
// that time. An edit landing between pop and acknowledgement re-raises the
// counter, so the flag survives and the next cycle re-uploads the item.
func (m *Manager) PopDirtyItems() []models.Payload {
	m.mu.Lock()
	defer m.mu.Unlock()

	var dirty []models.Payload
	for _, uuid := range m.order {
		p := m.byUUID[uuid]
		if !p.Dirty {
			continue
		}
		dirty = append(dirty, p)
		p.DirtyCount = 0
		m.byUUID[uuid] = p
	}
	return dirty
}

// MapCollectionToLocalItems pushes a resolved collection into the live item
// set. Acknowledged tombstones are removed; everything else replaces the
// live copy, with dirty bookkeeping preserved when the item was edited while
// its payload was in flight.
func (m *Manager) MapCollectionToLocalItems(_ context.Context, collection models.Collection) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, payload := range collection.All() {
		incoming := payload.WithSource(collection.Source())

		if incoming.Deleted && !incoming.Dirty {
			m.remove(incoming.UUID)
			continue
		}

		live, exists := m.byUUID[incoming.UUID]
		if exists && live.DirtyCount > 0 && !incoming.Dirty {
			// Edited while in flight: apply the payload but keep the item
			// flagged for the next cycle.
			incoming.Dirty = true
			incoming.DirtyCount = live.DirtyCount
			incoming.DirtiedAt = live.DirtiedAt
		}
		m.store(incoming)
	}
	return nil
}

// RemoveAllItems drops the entire live item set, for sign-out.
func (m *Manager) RemoveAllItems() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.order = nil
	m.byUUID = make(map[string]models.Payload)
}

// store must be called with the write lock held.
func (m *Manager) store(payload models.Payload) {
	if _, exists := m.byUUID[payload.UUID]; !exists {
		m.order = append(m.order, payload.UUID)
	}
	m.byUUID[payload.UUID] = payload
}

// remove must be called with the write lock held.
func (m *Manager) remove(uuid string) {
	if _, exists := m.byUUID[uuid]; !exists {
		return
	}
	delete(m.byUUID, uuid)
	for i, u := range m.order {
		if u == uuid {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}
