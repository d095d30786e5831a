package mock

import (
	"sync"

	"github.com/poiesic/launchpad/core"
	"github.com/poiesic/launchpad/provider"
)

// MockProvider is a test double for provider.Provider.
// It allows custom behavior injection via function fields.
type MockProvider struct {
	id string

	// SupportsQueryFunc is called by SupportsQuery if set.
	// If nil, every non-empty query is supported.
	SupportsQueryFunc func(query string) bool

	// SearchFunc is called by Search if set.
	// If nil, Search returns BatchCount unsettled batches.
	SearchFunc func(query string) []*provider.Batch

	// BatchCount is the number of batches created per search by default.
	BatchCount int

	mu       sync.Mutex
	searches []string
	pending  map[string][][]*provider.Batch
}

var _ provider.Provider = (*MockProvider)(nil)

// NewMockProvider creates a mock provider with default behavior.
func NewMockProvider(id string) *MockProvider {
	return &MockProvider{
		id:         id,
		BatchCount: 1,
		pending:    make(map[string][][]*provider.Batch),
	}
}

// WithResults makes every search resolve immediately with results.
func (m *MockProvider) WithResults(results ...core.Result) *MockProvider {
	m.SearchFunc = func(string) []*provider.Batch {
		return []*provider.Batch{provider.Resolved(results...)}
	}
	return m
}

// WithSupports restricts the provider to queries accepted by fn.
func (m *MockProvider) WithSupports(fn func(query string) bool) *MockProvider {
	m.SupportsQueryFunc = fn
	return m
}

// ID returns the provider id.
func (m *MockProvider) ID() string {
	return m.id
}

// SupportsQuery reports whether the provider answers query.
func (m *MockProvider) SupportsQuery(query string) bool {
	if m.SupportsQueryFunc != nil {
		return m.SupportsQueryFunc(query)
	}
	return query != ""
}

// Search records the query and returns its batches.
func (m *MockProvider) Search(query string) []*provider.Batch {
	m.mu.Lock()
	m.searches = append(m.searches, query)
	m.mu.Unlock()

	if m.SearchFunc != nil {
		return m.SearchFunc(query)
	}

	batches := make([]*provider.Batch, m.BatchCount)
	for i := range batches {
		batches[i] = provider.NewBatch()
	}
	m.mu.Lock()
	m.pending[query] = append(m.pending[query], batches)
	m.mu.Unlock()
	return batches
}

// Searches returns every query passed to Search, in call order.
func (m *MockProvider) Searches() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.searches...)
}

// CallCount returns the number of Search calls.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.searches)
}

// Pending returns the default batches created by the most recent search for query.
func (m *MockProvider) Pending(query string) []*provider.Batch {
	return m.PendingAt(query, -1)
}

// PendingAt returns the default batches created by the n-th search for query.
// Negative n counts from the most recent search.
func (m *MockProvider) PendingAt(query string, n int) []*provider.Batch {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := m.pending[query]
	if n < 0 {
		n += len(calls)
	}
	if n < 0 || n >= len(calls) {
		return nil
	}
	return calls[n]
}
