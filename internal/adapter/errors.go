package adapter

import "errors"

var (
	// ErrUnauthorized is returned when the server rejects the session or the
	// supplied credentials.
	ErrUnauthorized = errors.New("client unauthorized")

	// ErrAccountExists is returned by Register when the email is taken.
	ErrAccountExists = errors.New("account already exists")
)
