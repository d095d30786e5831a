// Package mock provides a test double implementation of provider.Provider.
//
// MockProvider lets tests control exactly when and how each batch settles,
// which is what race-sensitive aggregation tests need.
//
// # Usage in Tests
//
//	// Deferred batches, settled by the test
//	p := mock.NewMockProvider("files")
//	store.SetQuery("x")
//	p.Pending("x")[0].Resolve([]core.Result{...})
//
//	// Immediate results
//	p := mock.NewMockProvider("calc").WithResults(core.NewResult("calc", "4", "", "4"))
//
//	// Custom behavior injection
//	p.SearchFunc = func(query string) []*provider.Batch { ... }
//
// # Default Behavior
//
//   - Supports every non-empty query
//   - Search returns BatchCount unsettled batches (default 1) and records them
package mock
