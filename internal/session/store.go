// Package session keeps one in-progress dialog state per user identity.
//
// Access is serialized per identity through Acquire/Release; different
// identities never contend on a shared lock beyond the brief shard lookup.
package session

import (
	"context"
	"sync"
	"time"
)

const shardCount = 32

// Store holds values of type S keyed by identity.
type Store[S any] struct {
	shards   [shardCount]shard[S]
	ttl      time.Duration
	now      func() time.Time
	onExpire func(id int64, state S)
}

type shard[S any] struct {
	mu      sync.Mutex
	entries map[int64]*entry[S]
}

type entry[S any] struct {
	mu      sync.Mutex
	refs    int
	state   S
	present bool
	touched time.Time
}

// Option configures a Store.
type Option[S any] func(*Store[S])

// WithClock overrides the time source used for idle tracking.
func WithClock[S any](now func() time.Time) Option[S] {
	return func(s *Store[S]) {
		if now != nil {
			s.now = now
		}
	}
}

// WithExpiryHook registers a callback invoked for every state dropped by Sweep.
func WithExpiryHook[S any](fn func(id int64, state S)) Option[S] {
	return func(s *Store[S]) {
		s.onExpire = fn
	}
}

// New creates a store whose entries expire after ttl of inactivity. A
// non-positive ttl disables expiry.
func New[S any](ttl time.Duration, opts ...Option[S]) *Store[S] {
	s := &Store[S]{ttl: ttl, now: time.Now}
	for i := range s.shards {
		s.shards[i].entries = make(map[int64]*entry[S])
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store[S]) shardFor(id int64) *shard[S] {
	idx := uint64(id) % shardCount
	return &s.shards[idx]
}

// Acquire locks the identity's entry and returns a handle to it. The caller
// must Release the handle; until then other Acquire calls for the same
// identity block.
func (s *Store[S]) Acquire(id int64) *Handle[S] {
	sh := s.shardFor(id)
	sh.mu.Lock()
	e, ok := sh.entries[id]
	if !ok {
		e = &entry[S]{}
		sh.entries[id] = e
	}
	e.refs++
	sh.mu.Unlock()

	e.mu.Lock()
	return &Handle[S]{store: s, id: id, entry: e}
}

// Len reports how many identities have a live entry.
func (s *Store[S]) Len() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		n += len(sh.entries)
		sh.mu.Unlock()
	}
	return n
}

// Sweep drops states idle for longer than the ttl and returns how many were
// removed. Entries currently held by a handle are skipped.
func (s *Store[S]) Sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	type expired struct {
		id    int64
		state S
	}
	var dropped []expired

	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		for id, e := range sh.entries {
			if e.refs > 0 || !e.mu.TryLock() {
				continue
			}
			if e.present && now.Sub(e.touched) >= s.ttl {
				dropped = append(dropped, expired{id: id, state: e.state})
				delete(sh.entries, id)
			} else if !e.present {
				delete(sh.entries, id)
			}
			e.mu.Unlock()
		}
		sh.mu.Unlock()
	}

	if s.onExpire != nil {
		for _, d := range dropped {
			s.onExpire(d.id, d.state)
		}
	}
	return len(dropped)
}

// Run sweeps on every tick until ctx is done.
func (s *Store[S]) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep(s.now())
		}
	}
}

func (s *Store[S]) release(id int64, e *entry[S]) {
	empty := !e.present
	e.mu.Unlock()

	sh := s.shardFor(id)
	sh.mu.Lock()
	e.refs--
	if e.refs == 0 && empty && sh.entries[id] == e {
		delete(sh.entries, id)
	}
	sh.mu.Unlock()
}

// Handle is exclusive access to one identity's state.
type Handle[S any] struct {
	store    *Store[S]
	id       int64
	entry    *entry[S]
	released bool
}

// Load returns the stored state and whether one exists.
func (h *Handle[S]) Load() (S, bool) {
	if h.entry.present && h.expired() {
		var zero S
		h.entry.state = zero
		h.entry.present = false
	}
	return h.entry.state, h.entry.present
}

// Save replaces the stored state and refreshes its idle timer.
func (h *Handle[S]) Save(state S) {
	h.entry.state = state
	h.entry.present = true
	h.entry.touched = h.store.now()
}

// Clear removes the stored state.
func (h *Handle[S]) Clear() {
	var zero S
	h.entry.state = zero
	h.entry.present = false
}

// Release unlocks the entry. Calling it more than once is a no-op.
func (h *Handle[S]) Release() {
	if h.released {
		return
	}
	h.released = true
	h.store.release(h.id, h.entry)
}

func (h *Handle[S]) expired() bool {
	ttl := h.store.ttl
	return ttl > 0 && h.store.now().Sub(h.entry.touched) >= ttl
}
