package provider

import (
	"context"
	"errors"
	"sync"

	"github.com/poiesic/launchpad/core"
)

// Batch is one provider's pending contribution of results for one query.
// A Batch settles exactly once, with results or with an error.
type Batch struct {
	mu        sync.Mutex
	done      chan struct{}
	settled   bool
	results   []core.Result
	err       error
	callbacks []func([]core.Result, error)
}

// NewBatch creates an unsettled batch.
func NewBatch() *Batch {
	return &Batch{done: make(chan struct{})}
}

// Resolved creates a batch already settled with the given results.
func Resolved(results ...core.Result) *Batch {
	b := NewBatch()
	b.Resolve(results)
	return b
}

// Rejected creates a batch already settled with the given error.
func Rejected(err error) *Batch {
	b := NewBatch()
	b.Reject(err)
	return b
}

// Go runs fn on a new goroutine and settles the returned batch with its outcome.
func Go(fn func() ([]core.Result, error)) *Batch {
	b := NewBatch()
	go func() {
		results, err := fn()
		if err != nil {
			b.Reject(err)
			return
		}
		b.Resolve(results)
	}()
	return b
}

// Resolve settles the batch with results.
// Returns false if the batch had already settled.
func (b *Batch) Resolve(results []core.Result) bool {
	return b.settle(results, nil)
}

// Reject settles the batch with an error. A nil error is replaced by ErrRejected.
// Returns false if the batch had already settled.
func (b *Batch) Reject(err error) bool {
	if err == nil {
		err = ErrRejected
	}
	return b.settle(nil, err)
}

func (b *Batch) settle(results []core.Result, err error) bool {
	b.mu.Lock()
	if b.settled {
		b.mu.Unlock()
		return false
	}
	b.settled = true
	b.results = results
	b.err = err
	callbacks := b.callbacks
	b.callbacks = nil
	close(b.done)
	b.mu.Unlock()

	// Callbacks run outside the lock so they may inspect the batch.
	for _, fn := range callbacks {
		fn(results, err)
	}
	return true
}

// OnSettle registers fn to run once the batch settles. If the batch has
// already settled, fn runs immediately on the calling goroutine; otherwise it
// runs on the goroutine that settles the batch. Callbacks run in registration
// order.
func (b *Batch) OnSettle(fn func(results []core.Result, err error)) {
	b.mu.Lock()
	if !b.settled {
		b.callbacks = append(b.callbacks, fn)
		b.mu.Unlock()
		return
	}
	results, err := b.results, b.err
	b.mu.Unlock()
	fn(results, err)
}

// Done returns a channel that is closed when the batch settles.
func (b *Batch) Done() <-chan struct{} {
	return b.done
}

// Settled reports whether the batch has settled.
func (b *Batch) Settled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.settled
}

// Wait blocks until the batch settles or ctx is done.
func (b *Batch) Wait(ctx context.Context) ([]core.Result, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-b.done:
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.results, b.err
}

// SettleAll calls fn exactly once after every batch has settled. err joins
// the errors of every rejected batch and is nil when all resolved. With no
// batches fn runs immediately.
func SettleAll(batches []*Batch, fn func(err error)) {
	if len(batches) == 0 {
		fn(nil)
		return
	}

	var (
		mu        sync.Mutex
		remaining = len(batches)
		errs      []error
	)
	for _, b := range batches {
		b.OnSettle(func(_ []core.Result, err error) {
			mu.Lock()
			if err != nil {
				errs = append(errs, err)
			}
			remaining--
			last := remaining == 0
			mu.Unlock()

			if last {
				fn(errors.Join(errs...))
			}
		})
	}
}
