// Package health reports whether the pieces a query depends on are usable.
//
// A Checker reports a Result with one of three statuses: Healthy, Degraded
// or Unhealthy. CacheChecker probes a cache backend, pinging it when the
// backend supports cache.Pinger and falling back to a write/read round trip
// otherwise. QueryChecker reports the last execution of a query or mutation.
//
// # Aggregating Health Checks
//
//	agg := health.NewAggregator()
//	agg.Register(health.NewCacheChecker("redis", redisCache, health.CacheCheckerConfig{}))
//	agg.Register(health.NewQueryChecker("users", usersQuery))
//
//	results := agg.CheckAll(ctx)
//	overall := health.OverallStatus(results)
//
// # HTTP Endpoints
//
//	mux := http.NewServeMux()
//	health.RegisterHandlers(mux, agg)
//
// /healthz always answers 200, /readyz answers 503 when any check is
// unhealthy, and /health returns every result as JSON.
package health
