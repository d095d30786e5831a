package search

import "sync"

// Subscription identifies a registered change listener.
// The zero Subscription is never issued.
type Subscription struct {
	id uint64
}

type listenerEntry struct {
	id uint64
	fn func()
}

// listenerSet is an ordered set of change callbacks.
type listenerSet struct {
	mu      sync.Mutex
	nextID  uint64
	entries []listenerEntry
}

func (l *listenerSet) add(fn func()) Subscription {
	if fn == nil {
		return Subscription{}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	l.entries = append(l.entries, listenerEntry{id: l.nextID, fn: fn})
	return Subscription{id: l.nextID}
}

func (l *listenerSet) remove(sub Subscription) bool {
	if sub.id == 0 {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.entries {
		if e.id == sub.id {
			// Copy on removal so snapshots handed out earlier stay intact.
			entries := make([]listenerEntry, 0, len(l.entries)-1)
			entries = append(entries, l.entries[:i]...)
			l.entries = append(entries, l.entries[i+1:]...)
			return true
		}
	}
	return false
}

// snapshot returns the callbacks in registration order.
func (l *listenerSet) snapshot() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fns := make([]func(), len(l.entries))
	for i, e := range l.entries {
		fns[i] = e.fn
	}
	return fns
}

func (l *listenerSet) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
