package chatsync

import (
	"context"
	"sync"
	"time"

	"github.com/trousseauhq/trousseau/internal/core"
	"github.com/trousseauhq/trousseau/internal/types"
)

// DefaultDirectoryInterval is the background refresh cadence for the
// conversation list. The refresh, not the realtime feed, is what keeps
// summaries and unread counts approximately current.
const DefaultDirectoryInterval = 10 * time.Second

// DirectorySource lists conversations and addressable peers.
type DirectorySource interface {
	Conversations(ctx context.Context) ([]types.Conversation, error)
	MemberDirectory(ctx context.Context) ([]types.Profile, error)
}

// Directory holds the set of addressable conversations: the shared team
// conversation plus one per distinct direct peer. Direct conversations
// selected before any message exists server-side are synthesized locally
// and persist for the session.
type Directory struct {
	source DirectorySource
	selfID string

	mu            sync.Mutex
	conversations []types.Conversation
	members       []types.Profile
	synthesized   map[string]types.Conversation
	lastErr       error
}

// NewDirectory creates a directory for the given user.
func NewDirectory(source DirectorySource, selfID string) *Directory {
	return &Directory{
		source:      source,
		selfID:      selfID,
		synthesized: make(map[string]types.Conversation),
	}
}

// Refresh re-fetches conversations and the member directory. A failure is
// never fatal: the prior list stays in place and the error is recorded as a
// recoverable state readable via LastErr.
func (d *Directory) Refresh(ctx context.Context) error {
	conversations, err := d.source.Conversations(ctx)
	if err != nil {
		d.setErr(err)
		return err
	}
	members, err := d.source.MemberDirectory(ctx)
	if err != nil {
		d.setErr(err)
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.conversations = conversations
	d.members = members
	d.lastErr = nil
	// Drop local synthesized entries the server now knows about.
	for id := range d.synthesized {
		for _, c := range conversations {
			if c.ID == id {
				delete(d.synthesized, id)
				break
			}
		}
	}
	return nil
}

// List returns the known conversations: the server's list first, then any
// locally synthesized direct conversations the server has not seen yet.
func (d *Directory) List() []types.Conversation {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]types.Conversation, 0, len(d.conversations)+len(d.synthesized))
	out = append(out, d.conversations...)
	for _, c := range d.synthesized {
		out = append(out, c)
	}
	return out
}

// Members returns the addressable peers, excluding the current user.
func (d *Directory) Members() []types.Profile {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]types.Profile, 0, len(d.members))
	for _, m := range d.members {
		if m.UserID != d.selfID {
			out = append(out, m)
		}
	}
	return out
}

// EnsureDirect returns the direct conversation for a peer, synthesizing a
// local entry immediately when none exists so selection never waits on the
// server.
func (d *Directory) EnsureDirect(peer types.Profile) types.Conversation {
	id := core.DirectConversationID(peer.UserID)

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range d.conversations {
		if c.ID == id {
			return c
		}
	}
	if c, ok := d.synthesized[id]; ok {
		return c
	}

	name := peer.Name
	if name == "" {
		name = peer.UserID
	}
	peerID := peer.UserID
	conv := types.Conversation{
		ID:          id,
		Kind:        types.ConversationDirect,
		PeerID:      &peerID,
		DisplayName: name,
	}
	d.synthesized[id] = conv
	return conv
}

// LastErr returns the error from the most recent failed refresh, or nil.
func (d *Directory) LastErr() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr
}

func (d *Directory) setErr(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastErr = err
}
