package search

// Monitor provides hooks to observe the dispatch lifecycle.
// Hooks may be called concurrently from the goroutines that settle batches.
type Monitor interface {
	// Dispatched is called once per SetQuery after every capable provider was asked.
	Dispatched(query string, providers, batches int)
	// BatchAccepted is called after a current batch was appended.
	BatchAccepted(query string, results int)
	// BatchDiscarded is called when a batch settles after its dispatch went stale.
	BatchDiscarded(query string)
	// BatchFailed is called when a batch is rejected.
	BatchFailed(query string, err error)
	// ResultsCleared is called whenever the result set is emptied.
	ResultsCleared()
	// Completed is called once every batch of a dispatch has settled.
	// discarded reports whether the telemetry interaction was discarded.
	Completed(query string, discarded bool)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Dispatched(_ string, _, _ int) {}
func (n *noopMonitor) BatchAccepted(_ string, _ int) {}
func (n *noopMonitor) BatchDiscarded(_ string)       {}
func (n *noopMonitor) BatchFailed(_ string, _ error) {}
func (n *noopMonitor) ResultsCleared()               {}
func (n *noopMonitor) Completed(_ string, _ bool)    {}
