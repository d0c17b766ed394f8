// Package chatsync keeps the locally displayed message list for the active
// conversation consistent across three asynchronous producers: the realtime
// push feed, the polling fallback, and optimistic local sends. All three
// funnel through one idempotent merge, so their relative completion order
// never matters.
package chatsync

import (
	"sort"
	"sync"

	"github.com/trousseauhq/trousseau/internal/types"
)

// reconcileWindowMillis bounds the created-at distance under which a
// server-confirmed message is treated as the echo of a still-pending
// provisional message with the same author and content.
const reconcileWindowMillis = 5000

type entry struct {
	msg types.Message
	seq uint64
}

// Store holds the ordered, deduplicated message list for the currently
// active conversation.
type Store struct {
	mu      sync.Mutex
	entries []entry
	nextSeq uint64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Merge applies one incoming message. Re-delivering the same id replaces in
// place; a server-confirmed message matching a still-pending provisional one
// (same author, same content, created-at within the reconcile window)
// replaces it; anything else inserts. The sequence stays sorted ascending by
// created-at, stable by insertion order for equal timestamps.
func (s *Store) Merge(incoming types.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !incoming.Provisional() && incoming.Delivery == "" {
		incoming.Delivery = types.DeliveryConfirmed
	}

	for i := range s.entries {
		if s.entries[i].msg.ID == incoming.ID {
			s.entries[i].msg = incoming
			s.resort()
			return
		}
	}

	if !incoming.Provisional() {
		for i := range s.entries {
			if s.reconciles(s.entries[i].msg, incoming) {
				// Keep the provisional entry's insertion slot so ties
				// stay stable across the id swap.
				s.entries[i].msg = incoming
				s.resort()
				return
			}
		}
	}

	s.entries = append(s.entries, entry{msg: incoming, seq: s.nextSeq})
	s.nextSeq++
	s.resort()
}

func (s *Store) reconciles(existing, incoming types.Message) bool {
	if !existing.Provisional() || existing.Delivery != types.DeliveryPending {
		return false
	}
	if existing.AuthorID != incoming.AuthorID || existing.Content != incoming.Content {
		return false
	}
	delta := existing.CreatedAt - incoming.CreatedAt
	if delta < 0 {
		delta = -delta
	}
	return delta <= reconcileWindowMillis
}

// Remove deletes a message by id. Returns true if it was present.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].msg.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the store. Called synchronously at conversation-selection
// time, before any fetch for the new conversation resolves.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.nextSeq = 0
}

// Snapshot returns the current messages in display order.
func (s *Store) Snapshot() []types.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Message, len(s.entries))
	for i := range s.entries {
		out[i] = s.entries[i].msg
	}
	return out
}

// Len returns the number of stored messages.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) resort() {
	sort.SliceStable(s.entries, func(i, j int) bool {
		if s.entries[i].msg.CreatedAt != s.entries[j].msg.CreatedAt {
			return s.entries[i].msg.CreatedAt < s.entries[j].msg.CreatedAt
		}
		return s.entries[i].seq < s.entries[j].seq
	})
}
