package query

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/queryops/observe"
	"github.com/jonwraymond/queryops/registry"
)

type TestData struct {
	Result string `json:"result"`
}

func newTestFactory(t *testing.T, opts ...FactoryOption) *Factory {
	t.Helper()
	reg := registry.New()
	require.NoError(t, RegisterDefaults(reg))
	t.Cleanup(func() { _ = reg.Close() })
	return NewFactory(reg, opts...)
}

// logBuffer is a concurrency-safe writer for the JSON logger.
type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *logBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func loggingInstruments(level string) (*observe.Instruments, *logBuffer) {
	buf := &logBuffer{}
	return observe.NewInstruments(nil, nil, observe.NewLoggerWithWriter(level, buf)), buf
}

// counter counts function invocations.
type counter struct {
	mu    sync.Mutex
	calls int
}

func (c *counter) inc() {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
}

func (c *counter) get() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// failingStore reports every write as failed and never hits.
type failingStore[R any] struct{}

var errStoreDown = errors.New("store down")

func (failingStore[R]) Get(context.Context, string) (R, bool) {
	var zero R
	return zero, false
}
func (failingStore[R]) Set(context.Context, string, R) error { return errStoreDown }
func (failingStore[R]) Delete(context.Context, string) error { return nil }
