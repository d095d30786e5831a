package provider

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// Loader produces the provider set. It is called once per Registry.
type Loader func(ctx context.Context) ([]Provider, error)

// Registry holds the set of loaded providers.
// Providers are loaded once, asynchronously, when the registry is created.
type Registry struct {
	mu        sync.RWMutex
	providers []Provider
	err       error
	ready     chan struct{}
	timeout   time.Duration
	logger    *slog.Logger
}

var _ Source = (*Registry)(nil)

// Option configures a Registry.
type Option func(*Registry) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithLoadTimeout bounds how long the loader may run.
// Default is no timeout.
func WithLoadTimeout(timeout time.Duration) Option {
	return func(r *Registry) error {
		r.timeout = timeout
		return nil
	}
}

// NewRegistry creates a registry and starts loading providers in the background.
func NewRegistry(loader Loader, opts ...Option) (*Registry, error) {
	if loader == nil {
		return nil, ErrLoaderRequired
	}

	r := &Registry{
		ready:  make(chan struct{}),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.logger = r.logger.With("component", "provider-registry")

	go r.load(loader)
	return r, nil
}

func (r *Registry) load(loader Loader) {
	defer close(r.ready)

	ctx := context.Background()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	started := time.Now()
	providers, err := loader(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.logger.Error("error loading providers", "err", err)
		r.err = err
		return
	}
	r.providers = providers
	r.logger.Info("providers loaded", "count", len(providers), "elapsed", time.Since(started))
}

// Providers returns the loaded providers, or nil while loading is in progress
// or if loading failed.
func (r *Registry) Providers() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.providers)
}

// Ready returns a channel that is closed once loading has finished.
func (r *Registry) Ready() <-chan struct{} {
	return r.ready
}

// Wait blocks until loading has finished or ctx is done.
// Returns the load error, if any.
func (r *Registry) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-r.ready:
	}
	return r.Err()
}

// Err returns the load error, if any.
func (r *Registry) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}

// Lookup returns the loaded provider with the given id.
func (r *Registry) Lookup(id string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.providers {
		if p.ID() == id {
			return p, true
		}
	}
	return nil, false
}

type staticSource []Provider

// Static returns a Source whose providers are available immediately.
func Static(providers ...Provider) Source {
	return staticSource(providers)
}

func (s staticSource) Providers() []Provider {
	return slices.Clone([]Provider(s))
}
