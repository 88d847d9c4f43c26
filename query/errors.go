package query

import (
	"errors"
	"fmt"
)

// Sentinel errors for query and mutation construction and execution.
var (
	// ErrNotInitialized indicates a nil Factory or a Factory without a registry.
	ErrNotInitialized = errors.New("query: factory not initialized with a registry")

	// ErrFuncNotBound indicates Execute was called before a function was bound.
	ErrFuncNotBound = errors.New("query: no function bound")

	// ErrNilFunc indicates a nil function was passed to Create.
	ErrNilFunc = errors.New("query: function is nil")

	// ErrStoreUnavailable indicates caching is enabled but no cache could be resolved.
	ErrStoreUnavailable = errors.New("query: cache store unavailable")

	// ErrInvalidOption indicates an option does not fit the query being created.
	ErrInvalidOption = errors.New("query: invalid option")
)

// MessageError is the failure recorded when a function reports an error
// through Context.SetErrorMessage. Error returns the message unmodified.
type MessageError struct {
	Message string
}

func (e *MessageError) Error() string {
	return e.Message
}

// PanicError is the failure recorded when a function panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("query: function panicked: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}
