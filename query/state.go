package query

import "sync"

// Snapshot is a consistent view of a Query's state.
type Snapshot[R any] struct {
	Status Status
	Err    error
	Data   R
}

// MutationSnapshot is a consistent view of a Mutation's state.
type MutationSnapshot struct {
	Status Status
	Err    error
}

// state holds status, error and data under one lock so that every transition
// is observed whole.
type state[R any] struct {
	mu     sync.RWMutex
	status Status
	err    error
	data   R
}

func (s *state[R]) begin() {
	s.mu.Lock()
	s.status = StatusPending
	s.err = nil
	s.mu.Unlock()
}

func (s *state[R]) succeed(data R) {
	s.mu.Lock()
	s.status = StatusSuccess
	s.err = nil
	s.data = data
	s.mu.Unlock()
}

// fail records err and keeps the last successful data.
func (s *state[R]) fail(err error) {
	s.mu.Lock()
	s.status = StatusError
	s.err = err
	s.mu.Unlock()
}

func (s *state[R]) snapshot() Snapshot[R] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot[R]{Status: s.status, Err: s.err, Data: s.data}
}

// Status returns the current status.
func (s *state[R]) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Err returns the error of the last execution. It is non-nil exactly when
// Status is StatusError.
func (s *state[R]) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *state[R]) IsIdle() bool    { return s.Status() == StatusIdle }
func (s *state[R]) IsPending() bool { return s.Status() == StatusPending }
func (s *state[R]) IsSuccess() bool { return s.Status() == StatusSuccess }
func (s *state[R]) IsError() bool   { return s.Status() == StatusError }
