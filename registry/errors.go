package registry

import "errors"

// Sentinel errors for registry operations.
var (
	// ErrNotFound indicates no registration exists for the requested type.
	ErrNotFound = errors.New("registry: dependency not found")

	// ErrAlreadyRegistered indicates the type is already registered in this registry.
	ErrAlreadyRegistered = errors.New("registry: dependency already registered")

	// ErrInvalidRegistration indicates a nil registry or factory.
	ErrInvalidRegistration = errors.New("registry: invalid registration")

	// ErrClosed indicates the registry or scope has been closed.
	ErrClosed = errors.New("registry: registry is closed")
)
