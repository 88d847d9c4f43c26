package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type errStore[R any] struct {
	Store[R]
	err error
}

func (s errStore[R]) Set(context.Context, string, R) error { return s.err }

func newTestStore[R any](t *testing.T) *CodecStore[R] {
	t.Helper()
	s, err := NewStore[R](NewMemoryCache(), StoreConfig{})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return s
}

func TestMiddleware_HitSkipsLoader(t *testing.T) {
	mw := NewMiddleware[string](newTestStore[string](t), DefaultPolicy(), nil)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (string, error) {
		calls++
		return "fresh", nil
	}

	got, outcome, err := mw.Execute(ctx, "k", load, nil)
	if err != nil || got != "fresh" || outcome != OutcomeMiss {
		t.Fatalf("first Execute = (%q, %v, %v), want (fresh, miss, nil)", got, outcome, err)
	}

	got, outcome, err = mw.Execute(ctx, "k", load, nil)
	if err != nil || got != "fresh" || outcome != OutcomeHit {
		t.Fatalf("second Execute = (%q, %v, %v), want (fresh, hit, nil)", got, outcome, err)
	}
	if calls != 1 {
		t.Errorf("loader calls = %d, want 1", calls)
	}
}

func TestMiddleware_ErrorsNotCached(t *testing.T) {
	mw := NewMiddleware[int](newTestStore[int](t), DefaultPolicy(), nil)
	ctx := context.Background()
	boom := errors.New("boom")

	calls := 0
	load := func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, boom
		}
		return 7, nil
	}

	committed := false
	if _, _, err := mw.Execute(ctx, "k", load, func(int) { committed = true }); err != boom {
		t.Fatalf("Execute() error = %v, want %v", err, boom)
	}
	if committed {
		t.Error("commit must not run for failed loads")
	}

	got, outcome, err := mw.Execute(ctx, "k", load, nil)
	if err != nil || got != 7 || outcome != OutcomeMiss {
		t.Errorf("retry Execute = (%d, %v, %v), want (7, miss, nil)", got, outcome, err)
	}
}

func TestMiddleware_CommitRunsBeforeWrite(t *testing.T) {
	store := newTestStore[int](t)
	mw := NewMiddleware[int](store, DefaultPolicy(), nil)
	ctx := context.Background()

	var cachedAtCommit bool
	_, _, _ = mw.Execute(ctx, "k", func(context.Context) (int, error) { return 3, nil }, func(int) {
		_, cachedAtCommit = store.Get(ctx, "k")
	})
	if cachedAtCommit {
		t.Error("commit should observe the state before write-through")
	}
	if v, ok := store.Get(ctx, "k"); !ok || v != 3 {
		t.Errorf("store after Execute = (%d, %v), want (3, true)", v, ok)
	}
}

func TestMiddleware_Bypass(t *testing.T) {
	tests := []struct {
		name   string
		store  Store[int]
		policy Policy
		key    string
	}{
		{"policy disabled", newTestStore[int](t), NoCachePolicy(), "k"},
		{"nil store", nil, DefaultPolicy(), "k"},
		{"empty key", newTestStore[int](t), DefaultPolicy(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := NewMiddleware[int](tt.store, tt.policy, nil)
			calls := 0
			load := func(context.Context) (int, error) { calls++; return calls, nil }

			for i := 0; i < 3; i++ {
				_, outcome, err := mw.Execute(context.Background(), tt.key, load, nil)
				if err != nil {
					t.Fatalf("Execute() error = %v", err)
				}
				if outcome != OutcomeBypass {
					t.Errorf("outcome = %v, want bypass", outcome)
				}
			}
			if calls != 3 {
				t.Errorf("loader calls = %d, want 3", calls)
			}
		})
	}
}

func TestMiddleware_StoreErrorReported(t *testing.T) {
	writeErr := errors.New("write failed")
	store := errStore[int]{Store: newTestStore[int](t), err: writeErr}

	var gotKey string
	var gotErr error
	mw := NewMiddleware[int](store, DefaultPolicy(), func(_ context.Context, key string, err error) {
		gotKey, gotErr = key, err
	})

	v, _, err := mw.Execute(context.Background(), "k", func(context.Context) (int, error) { return 1, nil }, nil)
	if err != nil || v != 1 {
		t.Fatalf("Execute() = (%d, %v), want (1, nil)", v, err)
	}
	if gotKey != "k" || gotErr != writeErr {
		t.Errorf("onStoreError got (%q, %v), want (k, %v)", gotKey, gotErr, writeErr)
	}
}

func TestOutcome_String(t *testing.T) {
	tests := map[Outcome]string{
		OutcomeBypass: "bypass",
		OutcomeHit:    "hit",
		OutcomeMiss:   "miss",
		Outcome(42):   "unknown",
	}
	for o, want := range tests {
		if got := o.String(); got != want {
			t.Errorf("Outcome(%d).String() = %q, want %q", o, got, want)
		}
	}
}

type panicStore[R any] struct {
	Store[R]
}

func (panicStore[R]) Set(context.Context, string, R) error { panic("disk on fire") }

func TestMiddleware_StorePanicReported(t *testing.T) {
	var gotErr error
	committed := false
	mw := NewMiddleware[int](panicStore[int]{Store: newTestStore[int](t)}, DefaultPolicy(),
		func(_ context.Context, _ string, err error) { gotErr = err })

	v, outcome, err := mw.Execute(context.Background(), "k",
		func(context.Context) (int, error) { return 1, nil },
		func(int) { committed = true })

	if err != nil || v != 1 || outcome != OutcomeMiss {
		t.Fatalf("Execute() = (%d, %v, %v), want (1, miss, nil)", v, outcome, err)
	}
	if !committed {
		t.Error("result should be committed before the write")
	}
	if gotErr == nil || !strings.Contains(gotErr.Error(), "disk on fire") {
		t.Errorf("onStoreError got %v, want the panic value", gotErr)
	}
}
