package store

import "errors"

// ErrSessionNotFound is returned by GetSession when no session is persisted.
var ErrSessionNotFound = errors.New("local session not found")
