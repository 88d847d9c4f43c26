package query

import (
	"net/http"
	"sync"

	"github.com/jonwraymond/queryops/registry"
)

// Context is handed to every function invocation. A function reports a
// failure without returning an error by setting a non-empty error message.
//
// Contract:
// - A fresh Context is created for every Execute; the message starts empty.
// - Concurrency: implementations must tolerate calls from goroutines started
//   by the function.
type Context interface {
	ErrorMessage() string
	SetErrorMessage(msg string)
}

// Resolver gives access to the registry backing a Context.
type Resolver interface {
	Registry() *registry.Registry
}

// ContextSource builds the Context for one execution. Register one in the
// registry to use CreateWithContext with a custom Context type.
type ContextSource[C Context] func(reg *registry.Registry) C

// FuncContext is the default Context. Custom contexts usually embed it.
type FuncContext struct {
	mu           sync.Mutex
	errorMessage string
	reg          *registry.Registry
}

// NewFuncContext creates a FuncContext resolving resources from reg.
func NewFuncContext(reg *registry.Registry) *FuncContext {
	return &FuncContext{reg: reg}
}

// ErrorMessage returns the message set by the function, or "".
func (c *FuncContext) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errorMessage
}

// SetErrorMessage marks the current execution as failed with msg.
func (c *FuncContext) SetErrorMessage(msg string) {
	c.mu.Lock()
	c.errorMessage = msg
	c.mu.Unlock()
}

// Registry returns the registry resources are resolved from.
func (c *FuncContext) Registry() *registry.Registry {
	if c == nil {
		return nil
	}
	return c.reg
}

// HTTPClient returns the registered *http.Client, or http.DefaultClient when
// none is registered.
func (c *FuncContext) HTTPClient() *http.Client {
	if client, ok := Get[*http.Client](c); ok && client != nil {
		return client
	}
	return http.DefaultClient
}

// Get resolves a resource of type T for the running function.
func Get[T any](r Resolver) (T, bool) {
	if r == nil {
		var zero T
		return zero, false
	}
	return registry.Get[T](r.Registry())
}

// GetRequired resolves a resource of type T, failing with registry.ErrNotFound
// when it is not registered.
func GetRequired[T any](r Resolver) (T, error) {
	if r == nil {
		return registry.GetRequired[T](nil)
	}
	return registry.GetRequired[T](r.Registry())
}

var (
	_ Context  = (*FuncContext)(nil)
	_ Resolver = (*FuncContext)(nil)
)
