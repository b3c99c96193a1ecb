// Package store implements the client's local persistence: an encrypted
// payload table, a scalar key/value space for sync-position tokens, and the
// persisted session, all in a single SQLite database migrated with goose.
package store

import (
	"context"

	"github.com/leaflock/leaflock/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/local_storage_mock.go -package=mock

// LocalStorage is the full local persistence contract. Its payload and value
// methods satisfy the sync core's storage dependency; the session methods
// serve the application shell.
type LocalStorage interface {
	// GetAllRawPayloads reads every payload row as persisted, without
	// decrypting.
	GetAllRawPayloads(ctx context.Context) ([]models.Payload, error)

	// SavePayloads upserts the given payloads in one transaction.
	SavePayloads(ctx context.Context, payloads []models.Payload) error

	// RemoveAllPayloads wipes the payload table, for sign-out with data
	// removal.
	RemoveAllPayloads(ctx context.Context) error

	// GetValue returns the stored scalar for key, or the empty string when
	// the key does not exist.
	GetValue(ctx context.Context, key string) (string, error)
	SetValue(ctx context.Context, key, value string) error
	RemoveValue(ctx context.Context, key string) error

	// SaveSession persists the authenticated session so it survives
	// restarts. There is at most one.
	SaveSession(ctx context.Context, session models.Session) error
	GetSession(ctx context.Context) (models.Session, error)
	DeleteSession(ctx context.Context) error

	Close() error
}
