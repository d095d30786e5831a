// Package provider defines the search provider contract consumed by the
// aggregation store.
//
// A Provider reports whether it can answer a query and, when asked to search,
// returns one or more pending Batches. Each Batch settles exactly once, either
// with zero or more results or with an error, independently of every other
// batch.
//
// # Registry
//
// The Registry loads providers once, asynchronously, from a Loader. Until the
// load finishes it reports no providers, which consumers treat as "no
// provider is capable of answering":
//
//	registry, err := provider.NewRegistry(provider.FromSpecs(factories, specs))
//	if err != nil {
//	    return err
//	}
//	<-registry.Ready()
//
// # Specs and factories
//
// Providers are described by Specs (usually read from configuration) and
// built by a Factory registered for the spec's Kind.
package provider
