// Package resilience provides opt-in failure handling around query and
// mutation functions.
//
// The query engine never retries: a failed execution is recorded in the
// query's state and returned. Callers that want retries, deadlines or load
// shedding wrap the function they hand to the factory:
//
//	exec := resilience.NewExecutor(
//	    resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	        MaxFailures:  5,
//	        ResetTimeout: time.Minute,
//	    })),
//	    resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{MaxAttempts: 3})),
//	    resilience.WithTimeout(5*time.Second),
//	)
//
//	users, err := query.Create(f, resilience.WrapQuery(exec, fetchUsers))
//
// Wrapped functions keep the engine's contract. An error message set on the
// function context counts as a failed attempt; the context is cleared before
// the next attempt, and the final failure reaches the engine with its message
// unchanged.
package resilience
