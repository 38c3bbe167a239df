// Package draft holds the single in-progress transaction being composed
// across wizard steps.
//
// The store exposes whole-value replace semantics only: callers read the
// current draft, produce a modified copy and replace it. There is no
// partial-field mutation, which keeps sequential wizard steps from
// interleaving half-applied updates. Replacements are broadcast to
// subscribers as immutable snapshots.
package draft

import (
	"sync"

	"remitconnect/internal/core"
)

// Store is the exclusive owner of the current transaction draft.
type Store struct {
	mu      sync.Mutex
	current *core.Transaction
	subs    map[chan Snapshot]struct{}
}

// Snapshot is the value delivered to subscribers on every replace. Present
// is false when the draft was cleared.
type Snapshot struct {
	Transaction core.Transaction
	Present     bool
}

func NewStore() *Store {
	return &Store{subs: make(map[chan Snapshot]struct{})}
}

// Get returns a copy of the current draft, or ok=false when none is in
// progress. The returned value is a snapshot; mutating it has no effect on
// the store.
func (s *Store) Get() (core.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return core.Transaction{}, false
	}
	return *s.current, true
}

// Replace atomically swaps in a new draft. Passing nil clears the draft
// (user cancelled or transfer confirmed). No validation happens here; that
// is the caller's job before triggering a replace.
func (s *Store) Replace(tx *core.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tx == nil {
		s.current = nil
	} else {
		cp := *tx
		s.current = &cp
	}

	snap := Snapshot{}
	if s.current != nil {
		snap = Snapshot{Transaction: *s.current, Present: true}
	}
	for ch := range s.subs {
		// A slow subscriber loses its oldest pending snapshot rather than
		// blocking the writer.
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// Clear drops the current draft. Equivalent to Replace(nil).
func (s *Store) Clear() {
	s.Replace(nil)
}

// Subscribe registers for snapshots of every subsequent replace. The
// returned channel is buffered; call Unsubscribe when done.
func (s *Store) Subscribe() <-chan Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Snapshot, 8)
	s.subs[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (s *Store) Unsubscribe(ch <-chan Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for sub := range s.subs {
		if sub == ch {
			delete(s.subs, sub)
			close(sub)
			return
		}
	}
}
