package plugin

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/launchpad/core"
	"github.com/poiesic/launchpad/provider"
)

// KindExec is the provider.Spec kind served by the Host.
const KindExec = provider.DefaultKind

// DefaultTimeout bounds a search whose spec does not set a timeout.
const DefaultTimeout = 5 * time.Second

// Host runs exec plugin searches on a bounded worker pool.
type Host struct {
	pool    *ants.Pool
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Host.
type Option func(*Host) error

// WithPoolSize sets the worker pool size.
// Default is runtime.NumCPU() * 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(h *Host) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if h.pool != nil {
			h.pool.Release()
		}

		pool, err := newPool(size)
		if err != nil {
			return err
		}
		h.pool = pool
		return nil
	}
}

// WithTimeout sets the timeout used by specs that do not set their own.
// Default is DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(h *Host) error {
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		h.timeout = timeout
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) error {
		if logger == nil {
			logger = slog.Default()
		}
		h.logger = logger
		return nil
	}
}

// NewHost creates a plugin host.
func NewHost(opts ...Option) (*Host, error) {
	h := &Host{
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}

	poolSize := runtime.NumCPU() * 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := newPool(poolSize)
	if err != nil {
		return nil, err
	}
	h.pool = pool

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(h); optErr != nil {
			h.Release()
			return nil, optErr
		}
	}
	h.logger = h.logger.With("component", "plugin-host")

	return h, nil
}

func newPool(size int) (*ants.Pool, error) {
	return ants.NewPool(size)
}

// Factory builds an exec provider from spec.
func (h *Host) Factory(spec provider.Spec) (provider.Provider, error) {
	return newExecProvider(h, spec)
}

// Factories returns the factory set served by this host.
func (h *Host) Factories() provider.Factories {
	return provider.Factories{KindExec: h.Factory}
}

// Running returns the number of searches currently executing.
func (h *Host) Running() int {
	return h.pool.Running()
}

// Release releases the worker pool.
// The host should not be used after calling Release.
func (h *Host) Release() {
	if h.pool != nil {
		h.pool.Release()
	}
}

// submit queues fn on the pool and settles the returned batch with its
// outcome. It never waits for a free worker.
func (h *Host) submit(fn func() ([]core.Result, error)) *provider.Batch {
	b := provider.NewBatch()
	if h.pool.IsClosed() {
		b.Reject(ErrHostReleased)
		return b
	}
	task := func() {
		defer func() {
			if p := recover(); p != nil {
				h.logger.Error("plugin search panicked", "panic", p)
				b.Reject(fmt.Errorf("plugin panicked: %v", p))
			}
		}()
		results, err := fn()
		if err != nil {
			b.Reject(err)
			return
		}
		b.Resolve(results)
	}
	go func() {
		if err := h.pool.Submit(task); err != nil {
			b.Reject(submitError(err))
		}
	}()
	return b
}

func submitError(err error) error {
	if errors.Is(err, ants.ErrPoolClosed) {
		return ErrHostReleased
	}
	return fmt.Errorf("submitting search: %w", err)
}
