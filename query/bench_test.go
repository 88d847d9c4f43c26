package query

import (
	"context"
	"testing"

	"github.com/jonwraymond/queryops/registry"
)

func benchFactory(b *testing.B) *Factory {
	b.Helper()
	reg := registry.New()
	if err := RegisterDefaults(reg); err != nil {
		b.Fatal(err)
	}
	return NewFactory(reg)
}

func BenchmarkQuery_ExecuteCacheHit(b *testing.B) {
	q, err := Create(benchFactory(b), func(context.Context, string, *FuncContext) (TestData, error) {
		return TestData{Result: "ok"}, nil
	})
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	if _, err := q.Execute(ctx, "warm"); err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	for b.Loop() {
		_, _ = q.Execute(ctx, "warm")
	}
}

func BenchmarkQuery_ExecuteUncached(b *testing.B) {
	q, err := Create(benchFactory(b), func(context.Context, string, *FuncContext) (TestData, error) {
		return TestData{Result: "ok"}, nil
	}, WithCaching(false))
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()

	b.ReportAllocs()
	for b.Loop() {
		_, _ = q.Execute(ctx, "f")
	}
}

func BenchmarkQuery_Snapshot(b *testing.B) {
	q, err := Create(benchFactory(b), func(context.Context, string, *FuncContext) (int, error) {
		return 1, nil
	})
	if err != nil {
		b.Fatal(err)
	}

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = q.Snapshot()
		}
	})
}

func BenchmarkMutation_Execute(b *testing.B) {
	m, err := CreateMutation(benchFactory(b), func(context.Context, int, *FuncContext) error {
		return nil
	})
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()

	b.ReportAllocs()
	for b.Loop() {
		_ = m.Execute(ctx, 1)
	}
}
