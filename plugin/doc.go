// Package plugin hosts external search providers.
//
// An exec plugin is any program that prints search results as JSON on
// stdout. The Host turns provider.Spec entries of kind "exec" into providers
// whose searches run on a shared, bounded worker pool:
//
//	host, err := plugin.NewHost(plugin.WithPoolSize(8))
//	if err != nil {
//	    return err
//	}
//	defer host.Release()
//
//	loader := provider.FromSpecs(host.Factories(), cfg.Providers)
//
// Each search runs the command once with the query substituted for the
// literal "{query}" in its arguments. Non-zero exits, timeouts and malformed
// output reject the batch; they are never retried.
package plugin
