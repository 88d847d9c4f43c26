package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonwraymond/queryops/cache"
)

// BenchmarkChecker_Check measures a single CheckerFunc call.
func BenchmarkChecker_Check(b *testing.B) {
	checker := NewCheckerFunc("test", func(ctx context.Context) Result {
		return Healthy("ok")
	})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = checker.Check(ctx)
	}
}

// BenchmarkCacheChecker_Check measures the memory cache round trip.
func BenchmarkCacheChecker_Check(b *testing.B) {
	checker := NewCacheChecker("cache", cache.NewMemoryCache(), CacheCheckerConfig{})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = checker.Check(ctx)
	}
}

// BenchmarkAggregator_CheckAll_Sequential runs checks one at a time.
func BenchmarkAggregator_CheckAll_Sequential(b *testing.B) {
	agg := NewAggregator(AggregatorConfig{MaxConcurrency: 1})
	for i := 0; i < 5; i++ {
		agg.Register(fixed(fmt.Sprintf("checker-%d", i), Healthy("ok")))
	}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = agg.CheckAll(ctx)
	}
}

// BenchmarkAggregator_CheckAll_Parallel runs checks with no concurrency limit.
func BenchmarkAggregator_CheckAll_Parallel(b *testing.B) {
	agg := NewAggregator()
	for i := 0; i < 5; i++ {
		agg.Register(fixed(fmt.Sprintf("checker-%d", i), Healthy("ok")))
	}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = agg.CheckAll(ctx)
	}
}

// BenchmarkAggregator_VaryingCheckers measures CheckAll as checkers grow.
func BenchmarkAggregator_VaryingCheckers(b *testing.B) {
	for _, n := range []int{1, 5, 10, 25} {
		b.Run(fmt.Sprintf("checkers=%d", n), func(b *testing.B) {
			agg := NewAggregator()
			for i := 0; i < n; i++ {
				agg.Register(fixed(fmt.Sprintf("checker-%d", i), Healthy("ok")))
			}
			ctx := context.Background()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = agg.CheckAll(ctx)
			}
		})
	}
}

// BenchmarkOverallStatus measures status aggregation.
func BenchmarkOverallStatus(b *testing.B) {
	results := map[string]Result{
		"cache":   Healthy("ok"),
		"orders":  Degraded("last execution failed"),
		"users":   Healthy("ok"),
		"billing": Healthy("ok"),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = OverallStatus(results)
	}
}

// BenchmarkAggregator_Register measures registration.
func BenchmarkAggregator_Register(b *testing.B) {
	agg := NewAggregator()
	checker := fixed("test", Healthy("ok"))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		agg.Register(checker)
	}
}

// BenchmarkAggregator_CheckerNames measures the ordered name listing.
func BenchmarkAggregator_CheckerNames(b *testing.B) {
	agg := NewAggregator()
	for i := 0; i < 10; i++ {
		agg.Register(fixed(fmt.Sprintf("checker-%d", i), Healthy("ok")))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = agg.CheckerNames()
	}
}

// BenchmarkLivenessHandler_ServeHTTP measures /healthz.
func BenchmarkLivenessHandler_ServeHTTP(b *testing.B) {
	handler := LivenessHandler()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
}

// BenchmarkReadinessHandler_ServeHTTP measures /readyz with three checkers.
func BenchmarkReadinessHandler_ServeHTTP(b *testing.B) {
	agg := NewAggregator()
	for i := 0; i < 3; i++ {
		agg.Register(fixed(fmt.Sprintf("checker-%d", i), Healthy("ok")))
	}
	handler := ReadinessHandler(agg)
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
}

// BenchmarkDetailedHandler_ServeHTTP measures the JSON report.
func BenchmarkDetailedHandler_ServeHTTP(b *testing.B) {
	agg := NewAggregator()
	agg.Register(fixed("cache", Healthy("ok").WithDetails(map[string]any{"latency_ms": 1})))
	agg.Register(fixed("orders", Unhealthy("down", errors.New("connection refused"))))
	handler := DetailedHandler(agg)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
}

// BenchmarkHealthy measures result construction.
func BenchmarkHealthy(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Healthy("ok")
	}
}

// BenchmarkResult_WithDetails measures adding details to a result.
func BenchmarkResult_WithDetails(b *testing.B) {
	r := Healthy("ok")
	details := map[string]any{"status": "success", "duration": time.Millisecond}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.WithDetails(details)
	}
}

// BenchmarkStatus_String measures status formatting.
func BenchmarkStatus_String(b *testing.B) {
	statuses := []Status{StatusHealthy, StatusDegraded, StatusUnhealthy}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = statuses[i%len(statuses)].String()
	}
}

// BenchmarkConcurrent_Aggregator runs CheckAll from many goroutines.
func BenchmarkConcurrent_Aggregator(b *testing.B) {
	agg := NewAggregator()
	for i := 0; i < 5; i++ {
		agg.Register(fixed(fmt.Sprintf("checker-%d", i), Healthy("ok")))
	}
	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = agg.CheckAll(ctx)
		}
	})
}
