// Package query runs user-supplied data-fetching functions as observable
// state machines.
//
// A Query wraps a function that produces a result from a filter. Each Execute
// moves the query through Pending to Success or Error, captures the result or
// the error, and memoizes successful results in a cache keyed by the filter.
// A Mutation wraps a side-effecting function and tracks only status and error.
//
// Queries and mutations are built by a Factory over an explicit
// registry.Registry, which supplies the cache backend, the observer and the
// resources user functions resolve through their FuncContext:
//
//	reg := registry.New()
//	if err := query.RegisterDefaults(reg); err != nil {
//	    return err
//	}
//	f := query.NewFactory(reg)
//
//	users, err := query.Create(f, func(ctx context.Context, team string, fc *query.FuncContext) ([]User, error) {
//	    resp, err := fc.HTTPClient().Get("https://api.example.com/teams/" + team)
//	    ...
//	})
//
//	list, err := users.Execute(ctx, "platform")
//	snap := users.Snapshot() // Status, Err and Data read atomically
//
// Execution failures never panic out of Execute. A function fails by
// returning an error, by panicking, or by calling SetErrorMessage on its
// FuncContext and returning normally. In every case the failure is stored in
// the state and returned from Execute.
package query
