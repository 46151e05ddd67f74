package errors

import "errors"

// Sentinel errors for handlers to map to HTTP status. Repository and
// service code wraps these with fmt.Errorf("...: %w", ...) so callers
// compare with errors.Is.
var (
	// ErrValidation covers missing or malformed input caught before the
	// repository layer is reached.
	ErrValidation = errors.New("invalid input")

	// ErrEmailTaken is returned when registration hits the unique email
	// constraint.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown email and wrong password.
	// The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken covers missing, malformed, tampered or expired
	// bearer tokens.
	ErrInvalidToken = errors.New("invalid token")

	// ErrNotFound covers both a genuinely absent row and a row owned by a
	// different tenant. The two cases must never be distinguishable.
	ErrNotFound = errors.New("not found")
)
