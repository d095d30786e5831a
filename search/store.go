package search

import (
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/poiesic/launchpad/core"
	"github.com/poiesic/launchpad/provider"
	"github.com/poiesic/launchpad/telemetry"
)

// InteractionName is the telemetry interaction begun for every dispatch.
const InteractionName = "search"

// Store holds the current query and the results aggregated for it.
type Store struct {
	source   provider.Source
	recorder telemetry.Recorder
	monitor  Monitor
	logger   *slog.Logger

	mu         sync.Mutex
	query      string
	generation uint64
	results    []core.Result

	listeners listenerSet
}

// dispatch is one SetQuery call. Batches carry it so they can be checked for
// staleness when they settle.
type dispatch struct {
	generation uint64
	query      string
	accepted   bool // guarded by Store.mu

	// pending counts batches whose settle has not returned yet.
	pending atomic.Int64
	failed  atomic.Bool
}

// done records that one batch finished settling and reports whether it was
// the last one.
func (d *dispatch) done(err error) bool {
	if err != nil {
		d.failed.Store(true)
	}
	return d.pending.Add(-1) == 0
}

// Option configures a Store.
type Option func(*Store) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMonitor sets a monitor that observes every dispatch.
func WithMonitor(monitor Monitor) Option {
	return func(s *Store) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		s.monitor = monitor
		return nil
	}
}

// NewStore creates a new store reading providers from source and reporting
// interactions to recorder.
func NewStore(source provider.Source, recorder telemetry.Recorder, opts ...Option) (*Store, error) {
	if source == nil {
		return nil, ErrProviderSourceRequired
	}
	if recorder == nil {
		return nil, ErrRecorderRequired
	}

	s := &Store{
		source:   source,
		recorder: recorder,
		monitor:  &noopMonitor{},
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "search-store")

	return s, nil
}

// SetQuery makes query the current query and dispatches it to every provider
// that supports it. Results from earlier dispatches stop being accepted
// immediately, even when query equals the current query.
func (s *Store) SetQuery(query string) {
	s.mu.Lock()
	s.generation++
	s.query = query
	d := &dispatch{generation: s.generation, query: query}
	s.mu.Unlock()

	interaction := s.recorder.BeginInteraction(InteractionName, map[string]string{
		telemetry.AttrQuery: query,
	})

	var (
		batches []*provider.Batch
		capable int
	)
	for _, p := range s.source.Providers() {
		if !p.SupportsQuery(query) {
			continue
		}
		capable++
		span := interaction.CreateSpan(p.ID())
		var pending []*provider.Batch
		for _, b := range p.Search(query) {
			if b != nil {
				pending = append(pending, b)
			}
		}
		provider.SettleAll(pending, span.End)
		batches = append(batches, pending...)
	}
	s.monitor.Dispatched(query, capable, len(batches))
	s.logger.Debug("query dispatched", "providers", capable, "batches", len(batches), "generation", d.generation)

	finish := func() {
		discarded := d.failed.Load()
		if discarded {
			interaction.Discard()
		} else {
			interaction.Complete()
		}
		s.monitor.Completed(query, discarded)
	}

	if len(batches) == 0 {
		s.clearIfCurrent(d)
		finish()
		return
	}

	d.pending.Store(int64(len(batches)))
	for _, b := range batches {
		b.OnSettle(func(results []core.Result, err error) {
			s.settle(d, results, err)
			if d.done(err) {
				finish()
			}
		})
	}
}

// settle merges one settled batch of dispatch d into the result set.
func (s *Store) settle(d *dispatch, results []core.Result, err error) {
	if err != nil {
		s.logger.Debug("batch rejected", "generation", d.generation, "err", err)
		s.monitor.BatchFailed(d.query, err)
		return
	}

	s.mu.Lock()
	if !s.isCurrent(d) {
		s.mu.Unlock()
		s.monitor.BatchDiscarded(d.query)
		return
	}
	if !d.accepted {
		d.accepted = true
		s.results = nil
		s.mu.Unlock()

		s.monitor.ResultsCleared()
		s.emit()

		// A listener may have issued a new query during the clear notification.
		s.mu.Lock()
		if !s.isCurrent(d) {
			s.mu.Unlock()
			s.monitor.BatchDiscarded(d.query)
			return
		}
	}
	s.results = append(s.results, results...)
	s.mu.Unlock()

	s.monitor.BatchAccepted(d.query, len(results))
	s.emit()
}

// clearIfCurrent empties the result set unless d was superseded meanwhile.
func (s *Store) clearIfCurrent(d *dispatch) {
	s.mu.Lock()
	if !s.isCurrent(d) {
		s.mu.Unlock()
		return
	}
	s.results = nil
	s.mu.Unlock()

	s.monitor.ResultsCleared()
	s.emit()
}

// isCurrent reports whether d is the live dispatch. Callers must hold s.mu.
func (s *Store) isCurrent(d *dispatch) bool {
	return d != nil && d.generation == s.generation
}

// ClearResults empties the result set and notifies observers.
func (s *Store) ClearResults() {
	s.mu.Lock()
	s.results = nil
	s.mu.Unlock()

	s.monitor.ResultsCleared()
	s.emit()
}

// Results returns a copy of the current result set in acceptance order.
func (s *Store) Results() []core.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.results)
}

// Query returns the current query.
func (s *Store) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Subscribe registers fn to be called after every change to the result set.
// A nil fn is ignored and yields a Subscription that unsubscribes nothing.
func (s *Store) Subscribe(fn func()) Subscription {
	return s.listeners.add(fn)
}

// Unsubscribe removes a listener. Unknown subscriptions are ignored.
func (s *Store) Unsubscribe(sub Subscription) {
	s.listeners.remove(sub)
}

// AddChangeListener is an alias for Subscribe.
func (s *Store) AddChangeListener(fn func()) Subscription {
	return s.Subscribe(fn)
}

// RemoveChangeListener is an alias for Unsubscribe.
func (s *Store) RemoveChangeListener(sub Subscription) {
	s.Unsubscribe(sub)
}

func (s *Store) emit() {
	for _, fn := range s.listeners.snapshot() {
		fn()
	}
}
