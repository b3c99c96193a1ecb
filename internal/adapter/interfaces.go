// Package adapter provides transport-layer abstractions for communicating
// with a leaflock sync server.
//
// The primary abstraction is [ServerAdapter], which decouples the sync core
// from the underlying protocol. The package ships an HTTP/REST implementation
// ([NewHTTPServerAdapter]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/leaflock/leaflock/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the sync
// server. Implementations are responsible for serialisation, authentication
// header management, and mapping transport-level errors to the sentinel
// values defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token that will be attached to all
	// subsequent authenticated requests. It should be called immediately
	// after a successful Register or SignIn, or when restoring a persisted
	// session.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	// Online reports whether an authenticated session exists. The sync core
	// dispatches offline operations while it returns false.
	Online() bool

	// Register creates a new account. On success it stores the returned
	// bearer token via SetToken and returns the established session.
	Register(ctx context.Context, credentials models.Credentials) (models.Session, error)

	// SignIn authenticates with the server using the derived auth hash. On
	// success it stores the returned bearer token via SetToken.
	SignIn(ctx context.Context, credentials models.Credentials) (models.Session, error)

	// SignOut invalidates the server session and clears the stored token.
	// The local token is cleared even when the server call fails.
	SignOut(ctx context.Context) error

	// Sync submits one encrypted batch together with the client's sync
	// position and returns the server's reconciliation data. Server-side
	// failures come back inside the response (Status, ErrorMessage), not as
	// a Go error; the error return is reserved for transport failures.
	Sync(ctx context.Context, req models.SyncRequest) (models.SyncResponse, error)
}
