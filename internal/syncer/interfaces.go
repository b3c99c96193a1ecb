// Package syncer implements the sync orchestration core: it collects dirty
// payloads, dispatches online or offline sync operations, reconciles server
// responses through the delta engine, and maintains the observable sync
// lifecycle (queued, in-flight, error, out-of-sync recovery).
package syncer

import (
	"context"

	"github.com/leaflock/leaflock/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/syncer_mocks.go -package=mock

// Storage keys for the persisted sync position. Cleared together on
// sign-out.
const (
	StorageKeyLastSyncToken   = "last_sync_token"
	StorageKeyPaginationToken = "pagination_token"
)

// EncryptionIntent tells the encryption service what the encrypted payloads
// are destined for.
type EncryptionIntent string

const (
	// IntentSync encrypts payloads for transmission to the server.
	IntentSync EncryptionIntent = "sync"

	// IntentLocalStoragePreferEncrypted encrypts payloads for the local
	// database, falling back to plaintext only when no key is available.
	IntentLocalStoragePreferEncrypted EncryptionIntent = "local_storage_preferred"

	// IntentFileExport prepares payloads for a plaintext file export.
	IntentFileExport EncryptionIntent = "file_export"
)

// EncryptionService is the encrypt/decrypt contract the core consumes. It is
// payload-array-in/array-out; implementations never mutate their inputs.
type EncryptionService interface {
	// EncryptPayloads returns encrypted copies of the given payloads,
	// prepared according to intent.
	EncryptPayloads(ctx context.Context, payloads []models.Payload, intent EncryptionIntent) ([]models.Payload, error)

	// DecryptPayloads returns decrypted copies of the given payloads.
	// Payloads already decrypted or deleted pass through unchanged.
	DecryptPayloads(ctx context.Context, payloads []models.Payload) ([]models.Payload, error)

	// ComputeIntegrityHash computes the client-side structural hash over the
	// given payloads, comparable with the hash the server reports.
	ComputeIntegrityHash(payloads []models.Payload) (string, error)
}

// StorageService is the local persistence contract: raw payload rows plus a
// scalar key space for sync-position tokens.
type StorageService interface {
	GetAllRawPayloads(ctx context.Context) ([]models.Payload, error)
	SavePayloads(ctx context.Context, payloads []models.Payload) error

	GetValue(ctx context.Context, key string) (string, error)
	SetValue(ctx context.Context, key, value string) error
	RemoveValue(ctx context.Context, key string) error
}

// ItemManager is the item-mapping contract: it owns the live application
// items the sync core reads dirty state from and pushes resolved collections
// into.
type ItemManager interface {
	// MapCollectionToLocalItems pushes a resolved collection into live
	// application state. A mapped payload clears an item's dirty flag only
	// if its dirty counter is still zero; an edit made while the payload
	// was in flight keeps the item dirty for the next cycle.
	MapCollectionToLocalItems(ctx context.Context, collection models.Collection) error

	// MasterCollection snapshots all current live items.
	MasterCollection() models.Collection

	// DirtyItems returns the items currently flagged dirty.
	DirtyItems() []models.Payload

	// PopDirtyItems returns the items currently flagged dirty and resets
	// each returned item's dirty counter to zero, atomically with the pop.
	// The dirty flag itself stays set until a saved payload maps back.
	PopDirtyItems() []models.Payload
}

// SessionService reports whether an authenticated server session exists.
// Offline operation is not an error state, just a different dispatch path.
type SessionService interface {
	Online() bool
}

// TransportService submits one encrypted batch to the server together with
// the client's sync position and receives the server's reconciliation data.
type TransportService interface {
	Sync(ctx context.Context, req models.SyncRequest) (models.SyncResponse, error)
}
