package identity

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotAdmin means the credential is valid but does not belong to the
	// configured console operator.
	ErrNotAdmin = errors.New("account is not the console administrator")

	ErrSessionNotFound = errors.New("session not found or expired")
	ErrInvalidToken    = errors.New("invalid access token")
)
